package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cobralans/cobra-lans/internal/service/app"
)

var (
	// installDir is the target directory games are installed under.
	installDir string
	// playerName is substituted into installers that support it.
	playerName string
	// serverAddress is the game server IPv4 handed to installers that need it.
	serverAddress string
	// skipBusyCheck bypasses the running-installer guard.
	skipBusyCheck bool

	// installCmd runs the installers of the named manifest entries.
	installCmd = &cobra.Command{
		Use:   "install <entry-name>...",
		Short: "Install the named games from the installers tree",
		Long: "Install runs each named entry's prerequisites and primary " +
			"installer in order, silently, substituting the install directory, " +
			"player name and server address where the entry supports them. " +
			"A failed entry is reported and the batch continues.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &app.InstallOptions{
				ConfigPath:    configPath,
				ManifestPath:  manifestPath,
				Mode:          mode,
				Names:         args,
				InstallDir:    installDir,
				PlayerName:    playerName,
				ServerAddress: serverAddress,
				SkipBusyCheck: skipBusyCheck,
			}

			return app.RunInstall(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	installCmd.Flags().StringVarP(&installDir, "dir", "d",
		"", "install target directory (default: configured install dir)")
	installCmd.Flags().StringVarP(&playerName, "player", "p",
		"", "player name passed to installers that support it")
	installCmd.Flags().StringVarP(&serverAddress, "server-ip", "s",
		"", "game server IPv4 passed to installers that require it")
	installCmd.Flags().BoolVar(&skipBusyCheck, "skip-busy-check",
		false, "start even if another Windows Installer is running")

	rootCmd.AddCommand(installCmd)
}
