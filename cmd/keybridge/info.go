package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keybridge/internal/app"
	"github.com/zx06/keybridge/internal/output"
)

// newInfoCommand builds a command that prints static data and needs no keychain.
func newInfoCommand(use, short string, data func() any, w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			return w.WriteOK(format, data())
		},
	}
}

// NewSpecCommand exports the machine-readable command and error-code spec.
func NewSpecCommand(a *app.App, w *output.Writer) *cobra.Command {
	return newInfoCommand("spec", "Export tool spec for AI/agents", func() any { return a.BuildSpec() }, w)
}

// NewVersionCommand prints build information.
func NewVersionCommand(a *app.App, w *output.Writer) *cobra.Command {
	return newInfoCommand("version", "Print version information", func() any { return a.VersionInfo() }, w)
}
