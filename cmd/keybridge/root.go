package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zx06/keybridge/internal/config"
	"github.com/zx06/keybridge/internal/errors"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config holds the resolved configuration
type Config struct {
	FormatStr   string
	ConfigStr   string
	LogLevelStr string
	Resolved    config.Resolved
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "keybridge",
		Short:         "Bridge credential requests to the OS secret store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// CLI > ENV > Config
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			r, xe := config.Resolve(config.Options{
				ConfigPath:     GlobalConfig.ConfigStr,
				CLIFormat:      GlobalConfig.FormatStr,
				CLIFormatSet:   cmd.Flags().Changed("format"),
				CLILogLevel:    GlobalConfig.LogLevelStr,
				CLILogLevelSet: cmd.Flags().Changed("log-level"),
				EnvFormat:      os.Getenv("KEYBRIDGE_FORMAT"),
				EnvLogLevel:    os.Getenv("KEYBRIDGE_LOG_LEVEL"),
				EnvService:     os.Getenv("KEYBRIDGE_SERVICE"),
			})
			if xe != nil {
				return xe
			}
			GlobalConfig.Resolved = r
			GlobalConfig.FormatStr = r.Format
			GlobalConfig.LogLevelStr = r.LogLevel
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./keybridge.yaml or $HOME/.config/keybridge/keybridge.yaml")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: json|yaml|table|csv|auto")
	root.PersistentFlags().StringVar(&GlobalConfig.LogLevelStr, "log-level", "info", "Log level (stderr): debug|info|warn|error")

	root.SetFlagErrorFunc(usageErr)

	return root
}
