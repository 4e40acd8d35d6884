package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zx06/keybridge/internal/app"
	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/output"
)

// parseOutputFormat parses and validates the output format string
func parseOutputFormat(s string) (output.Format, error) {
	f, ok := output.ParseFormat(s)
	if !ok {
		return "", errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": s})
	}
	return resolveAuto(f), nil
}

// resolveFormatForError resolves the format for error output
func resolveFormatForError(s string) output.Format {
	f, ok := output.ParseFormat(s)
	if !ok {
		f = output.FormatAuto
	}
	return resolveAuto(f)
}

// resolveAuto resolves "auto" format to appropriate format based on TTY
func resolveAuto(f output.Format) output.Format {
	if f != output.FormatAuto {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return output.FormatTable
	}
	return output.FormatJSON
}

// normalizeErr normalizes any error to XError
func normalizeErr(err error) *errors.XError {
	return errors.AsOrWrap(err)
}

// newRuntime wires logger, bridge and dispatcher from the resolved config.
// Logs always go to the writer's error stream.
func newRuntime(w *output.Writer) (*app.Runtime, error) {
	rt, xe := app.NewRuntime(GlobalConfig.Resolved, w.Err, nil)
	if xe != nil {
		return nil, xe
	}
	return rt, nil
}

// usageArgs reports positional argument mistakes as config errors (exit 2).
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageErr(cmd, err)
		}
		return nil
	}
}

func usageErr(cmd *cobra.Command, err error) error {
	return errors.Wrap(errors.CodeCfgInvalid, err.Error(), map[string]any{"command": cmd.CommandPath()}, err)
}
