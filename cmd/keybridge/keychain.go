package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/keychain"
	"github.com/zx06/keybridge/internal/output"
)

// SetFlags holds flags for the set command
type SetFlags struct {
	Stdin bool
}

// GetFlags holds flags for the get command
type GetFlags struct {
	Raw bool
}

// stdinIsTerminal reports whether the interactive prompt can be shown
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// NewSetCommand creates the set command
func NewSetCommand(w *output.Writer) *cobra.Command {
	flags := &SetFlags{}
	cmd := &cobra.Command{
		Use:   "set <service> <key> [value]",
		Short: "Store a secret in the OS keychain",
		Long:  "Store a secret in the OS keychain. Without a value argument the secret is read from stdin (--stdin) or prompted for interactively.",
		Args:  usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, args, flags, w)
		},
	}
	cmd.Flags().BoolVar(&flags.Stdin, "stdin", false, "Read the value from stdin")
	return cmd
}

// NewGetCommand creates the get command
func NewGetCommand(w *output.Writer) *cobra.Command {
	flags := &GetFlags{}
	cmd := &cobra.Command{
		Use:   "get <service> <key>",
		Short: "Read a secret from the OS keychain",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args, flags, w)
		},
	}
	cmd.Flags().BoolVar(&flags.Raw, "raw", false, "Print only the value")
	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <service> <key>",
		Aliases: []string{"rm"},
		Short:   "Delete a secret from the OS keychain",
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(args, w)
		},
	}
}

func runSet(cmd *cobra.Command, args []string, flags *SetFlags, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	value, err := readValue(cmd.InOrStdin(), args, flags)
	if err != nil {
		return err
	}
	rt, err := newRuntime(w)
	if err != nil {
		return err
	}
	return writeResult(w, format, args[0], args[1], rt.Bridge.Set(args[0], args[1], value))
}

func runGet(args []string, flags *GetFlags, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	rt, err := newRuntime(w)
	if err != nil {
		return err
	}
	r := rt.Bridge.Get(args[0], args[1])
	if flags.Raw && r.Success {
		_, err := fmt.Fprintln(w.Out, r.ValueText())
		return err
	}
	return writeResult(w, format, args[0], args[1], r)
}

func runDelete(args []string, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	rt, err := newRuntime(w)
	if err != nil {
		return err
	}
	return writeResult(w, format, args[0], args[1], rt.Bridge.Delete(args[0], args[1]))
}

// writeResult writes a successful Result as data; a failed one becomes a
// KEYBRIDGE_KEYCHAIN_FAILED error carrying the platform text verbatim.
func writeResult(w *output.Writer, format output.Format, service, key string, r keychain.Result) error {
	if r.Success {
		return w.WriteOK(format, r)
	}
	return errors.New(errors.CodeKeychainFailed, r.ErrorText(), map[string]any{
		"service": service,
		"key":     key,
		"result":  r,
	})
}

// readValue picks the secret from the argument, stdin or an interactive prompt.
func readValue(in io.Reader, args []string, flags *SetFlags) (string, error) {
	if len(args) == 3 {
		if flags.Stdin {
			return "", errors.New(errors.CodeCfgInvalid, "value given both as argument and --stdin", nil)
		}
		return args[2], nil
	}
	if flags.Stdin {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", errors.Wrap(errors.CodeInternal, "failed to read value from stdin", nil, err)
		}
		v := strings.TrimSuffix(string(b), "\n")
		return strings.TrimSuffix(v, "\r"), nil
	}
	if stdinIsTerminal() {
		return promptValue(args[0], args[1])
	}
	return "", errors.New(errors.CodeCfgInvalid, "value is required (argument, --stdin, or interactive terminal)", nil)
}
