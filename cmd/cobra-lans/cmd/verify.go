package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cobralans/cobra-lans/internal/service/app"
)

// verifyCmd checks the installers tree against the games manifest.
var verifyCmd = &cobra.Command{
	Use:   "verify [entry-name]...",
	Short: "Verify installer integrity against the games manifest",
	Long: "Verify compares every manifest entry (or only the named ones) with " +
		"the installers tree: each declared file is hashed, the primary " +
		"installer is checked against its checksum or embedded version, and " +
		"the result is rendered as one table row per entry.",
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &app.VerifyOptions{
			ConfigPath:   configPath,
			ManifestPath: manifestPath,
			Mode:         mode,
			Names:        args,
		}

		return app.RunVerify(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(verifyCmd)
}
