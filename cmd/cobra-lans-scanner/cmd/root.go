package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cobralans/cobra-lans/internal/config"
	"github.com/cobralans/cobra-lans/internal/logger"
	"github.com/cobralans/cobra-lans/internal/service/app"
	"github.com/cobralans/cobra-lans/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// installersDir overrides the configured installers tree location.
	installersDir string
	// manifestPath overrides the manifest location.
	manifestPath string
	// ignorePatterns lists glob patterns for files to leave out of the manifest.
	ignorePatterns []string
	// logLevel controls logging verbosity.
	logLevel string

	// rootCmd represents the base command for regenerating the games manifest.
	rootCmd = &cobra.Command{
		Use:   "cobra-lans-scanner",
		Short: "Regenerate the games manifest from the installers tree",
		Long: "The scanner walks every game folder under the installers tree, " +
			"hashes its files, fingerprints the primary installer and rewrites " +
			"the games manifest, keeping manually configured fields intact.",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level: %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &app.ScanOptions{
				ConfigPath:     configPath,
				InstallersDir:  installersDir,
				ManifestPath:   manifestPath,
				IgnorePatterns: ignorePatterns,
			}

			return app.RunScan(ctx, options)
		},
	}
)

// Execute runs the cobra-lans-scanner CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c",
		config.DefaultConfigFilename, "path to settings file")
	rootCmd.Flags().StringVarP(&installersDir, "installers-dir", "i",
		"", "installers tree location (default: configured installers dir)")
	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m",
		"", "path to games manifest (default: search order)")
	rootCmd.Flags().StringSliceVar(&ignorePatterns, "ignore",
		nil, "glob patterns of files to leave out of the manifest")
	rootCmd.Flags().StringVar(&logLevel, "log-level",
		"info", "logging level (debug, info, warn, error, fatal)")
}
