package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keybridge/internal/config"
	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/output"
)

// NewProbeCommand creates the probe command
func NewProbeCommand(w *output.Writer) *cobra.Command {
	var service string
	cmd := &cobra.Command{
		Use:   "probe [service]",
		Short: "Check that the OS secret store is reachable",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			rt, err := newRuntime(w)
			if err != nil {
				return err
			}
			var positional string
			if len(args) == 1 {
				positional = args[0]
			}
			svc := config.FirstNonEmpty(
				positional,
				config.ValueIfSet(cmd.Flags().Changed("service"), service),
				rt.Config.Service,
			)
			if err := rt.Bridge.Probe(svc); err != nil {
				return errors.Wrap(errors.CodeKeychainFailed, err.Error(), nil, err).WithDetail("service", svc)
			}
			return w.WriteOK(format, map[string]any{"service": svc, "available": true})
		},
	}
	cmd.Flags().StringVar(&service, "service", "", "Service used for the probe lookup (default: config service)")
	return cmd
}
