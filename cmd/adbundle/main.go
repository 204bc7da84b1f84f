// Package main provides the CLI entry point for adbundle.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/adbundle-go/internal/config"
	"github.com/ukaji3/adbundle-go/internal/logging"
	"github.com/ukaji3/adbundle-go/pkg/adbundle"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "adbundle",
		Short: "Turn GMV MAX report workbooks into data bundles",
		Long: `adbundle reads a GMV MAX performance workbook, extracts the time-slot,
product and creative sheets, adds a per-account summary with ROAS, and writes
the result as one JSON bundle. The analyze command sends the bundle together
with a product image and a video to Gemini for a report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err = logging.New(logging.Settings{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Verbose: verbose,
			})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "adbundle.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newBundleCmd(), newAnalyzeCmd(), newInitConfigCmd())
	return rootCmd
}

// extractOptions returns the configured options with the mode flag applied.
func extractOptions(cmd *cobra.Command, mode string) (adbundle.Options, error) {
	opts := cfg.Options()
	if cmd.Flags().Changed("mode") {
		opts.Mode = adbundle.Mode(mode)
	}
	opts.Logger = logger
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the current configuration to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			// Keep the key out of the file
			out := *cfg
			out.Gemini.APIKey = ""
			if err := out.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
