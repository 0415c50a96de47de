package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cobralans/cobra-lans/internal/config"
	"github.com/cobralans/cobra-lans/internal/logger"
	"github.com/cobralans/cobra-lans/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// manifestPath overrides the manifest location.
	manifestPath string
	// logLevel controls logging verbosity.
	logLevel string
	// mode selects game or server entries.
	mode string

	// rootCmd represents the base command of the LAN party toolkit.
	rootCmd = &cobra.Command{
		Use:   "cobra-lans",
		Short: "Verify and install LAN party games from a shared installers tree",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level: %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

// Execute runs the cobra-lans CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		config.DefaultConfigFilename, "path to settings file")
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m",
		"", "path to games manifest (default: search order)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		"info", "logging level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode",
		"game", "entry flavor to operate on (game or server)")
}
