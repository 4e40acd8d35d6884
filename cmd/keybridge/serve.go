package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zx06/keybridge/internal/config"
	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/ipc"
	"github.com/zx06/keybridge/internal/output"
)

type serveOptions struct {
	framing    string
	framingSet bool
}

// NewServeCommand creates the serve command
func NewServeCommand(w *output.Writer) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve keychain commands over stdin/stdout",
		Long: "Read keychain_set / keychain_get / keychain_delete requests from stdin and write one " +
			"{id, success, value, error} response per request to stdout. Logs go to stderr.",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.framingSet = cmd.Flags().Changed("framing")
			return runServe(cmd, opts, w)
		},
	}
	cmd.Flags().StringVar(&opts.framing, "framing", string(ipc.FramingLines), "Message framing: lines|native")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions, w *output.Writer) error {
	framing, xe := resolveFraming(opts)
	if xe != nil {
		return xe
	}
	rt, err := newRuntime(w)
	if err != nil {
		return err
	}
	srv, err := ipc.NewServer(rt.Dispatcher, framing, rt.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func resolveFraming(opts *serveOptions) (ipc.Framing, *errors.XError) {
	framing := ipc.Framing(config.FirstNonEmpty(
		config.ValueIfSet(opts.framingSet, opts.framing),
		os.Getenv("KEYBRIDGE_FRAMING"),
		GlobalConfig.Resolved.File.Serve.Framing,
		string(ipc.FramingLines),
	))
	if !ipc.IsValidFraming(framing) {
		return "", errors.New(errors.CodeCfgInvalid, "invalid framing", map[string]any{"framing": string(framing)})
	}
	return framing, nil
}
