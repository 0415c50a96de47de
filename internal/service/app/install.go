package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/cobralans/cobra-lans/internal/config"
	"github.com/cobralans/cobra-lans/internal/logger"
	"github.com/cobralans/cobra-lans/internal/service/installer"
)

var (
	// errNoEntriesSelected is returned when the install command names nothing.
	errNoEntriesSelected = errors.New("no entries selected for install")
	// errInstallerBusy is returned while another Windows Installer runs.
	errInstallerBusy = errors.New("another installation is already running, finish it first")
	// errInstallFailed aggregates per-entry install failures.
	errInstallFailed = errors.New("install failed")
)

// InstallOptions contains inputs for the install workflow.
type InstallOptions struct {
	// ConfigPath is an optional path to the settings YAML.
	ConfigPath string
	// ManifestPath overrides the manifest location from the settings.
	ManifestPath string
	// Mode selects the game or server flavor of each entry (defaults to game).
	Mode string
	// Names are the manifest entries to install, in order. Required.
	Names []string
	// InstallDir overrides the configured default install target.
	InstallDir string
	// PlayerName is substituted into installers that support it.
	PlayerName string
	// ServerAddress is the dotted-quad IPv4 passed to installers that need it.
	ServerAddress string
	// SkipBusyCheck bypasses the running-installer guard.
	SkipBusyCheck bool
	// Output receives per-entry outcome lines (defaults to standard output).
	Output io.Writer
	// FS is the filesystem the manifest is read from (defaults to the OS one).
	FS afero.Fs
	// Runner overrides process execution. Optional.
	Runner installer.Runner
}

// RunInstall installs the named entries sequentially, reporting one outcome
// line per entry. One entry's failure never stops the batch; the returned
// error summarizes how many entries failed.
func RunInstall(ctx context.Context, opts *InstallOptions) error {
	ctx = logger.WithName(ctx, "cobra-lans")

	if len(opts.Names) == 0 {
		return errNoEntriesSelected
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	mode, err := parseMode(opts.Mode)
	if err != nil {
		return err
	}

	entries, err := loadEntries(ctx, fs, cfg, opts.ManifestPath)
	if err != nil {
		return err
	}

	entries, err = selectEntries(entries, mode, opts.Names)
	if err != nil {
		return err
	}

	// The Windows Installer service runs one installation at a time; starting
	// a batch next to a live msiexec would fail it with ERROR_INSTALL_ALREADY_RUNNING.
	if !opts.SkipBusyCheck {
		busy, busyErr := installer.InstallerBusy(ctx)
		if busyErr != nil {
			logger.WarnKV(ctx, "Process enumeration failed, continuing without busy check",
				"error", busyErr)
		} else if busy {
			return errInstallerBusy
		}
	}

	installDir := opts.InstallDir
	if installDir == "" {
		installDir = cfg.DefaultInstallDir
	}

	svc := installer.NewService(cfg.InstallersDir, opts.Runner)
	failures := svc.RunInstalls(ctx, entries, &installer.Options{
		InstallDir:    installDir,
		PlayerName:    opts.PlayerName,
		ServerAddress: opts.ServerAddress,
	})

	failed := make(map[string]error, len(failures))
	for _, failure := range failures {
		failed[failure.Entry] = failure.Err
	}

	for _, entry := range entries {
		if err, ok := failed[entry.Name]; ok {
			fmt.Fprintf(out, "✗ %s: %v\n", entry.Name, err)
		} else {
			fmt.Fprintf(out, "✓ %s\n", entry.Name)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %d of %d entries", errInstallFailed, len(failures), len(entries))
	}

	logger.InfoKV(ctx, "Install batch finished", "entries", len(entries))

	return nil
}
