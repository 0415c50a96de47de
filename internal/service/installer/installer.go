package installer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/logger"
)

var (
	// errInstallDirRequired is returned when no install directory is supplied.
	errInstallDirRequired = errors.New("install directory must be provided")
	// errNonZeroExit marks a primary installer that ran but reported failure.
	errNonZeroExit = errors.New("installer exited with non-zero code")
)

// Options are the caller-supplied parameters for one install batch.
type Options struct {
	// InstallDir is the directory games are installed under; each entry gets
	// InstallDir\<entry name>.
	InstallDir string
	// PlayerName is passed to installers declaring SupportsPlayerName.
	PlayerName string
	// ServerAddress is the dotted-quad IPv4 address passed, octet by octet,
	// to installers declaring RequiresServerIP. Optional.
	ServerAddress string
}

// Validate checks the options and parses the optional server address.
func (o *Options) Validate() ([]string, error) {
	if o.InstallDir == "" {
		return nil, errInstallDirRequired
	}

	if o.ServerAddress == "" {
		return nil, nil
	}

	return AddressOctets(o.ServerAddress)
}

// EntryError reports one failed entry of an install batch.
type EntryError struct {
	// Entry is the manifest entry name.
	Entry string
	// Err describes what went wrong.
	Err error
}

// Error renders the failure the way the outcome dialog shows it.
func (e EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entry, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e EntryError) Unwrap() error {
	return e.Err
}

// Service drives external installer processes for selected manifest entries.
// The batch is strictly sequential: installers share exclusive system install
// state and must never run concurrently with each other.
type Service struct {
	// root is the installers tree directory all entry base paths live under.
	root string
	// runner launches external processes.
	runner Runner
}

// NewService creates an orchestrator over the provided installers root.
// A nil runner defaults to real process execution.
func NewService(root string, runner Runner) *Service {
	if runner == nil {
		runner = NewExecRunner()
	}

	return &Service{
		root:   root,
		runner: runner,
	}
}

// RunInstalls runs each selected entry's prerequisites and primary installer,
// in the order given, substituting the caller-supplied parameters. One entry's
// failure never aborts the batch: the returned list carries one element per
// failed entry and an empty list signals total success. Nothing is rolled
// back; partial success is an expected terminal state.
func (s *Service) RunInstalls(ctx context.Context, entries []*domain.Entry, opts *Options) []EntryError {
	octets, err := opts.Validate()
	if err != nil {
		// An unusable parameter set fails every entry identically.
		failures := make([]EntryError, 0, len(entries))
		for _, entry := range entries {
			failures = append(failures, EntryError{Entry: entry.Name, Err: err})
		}

		return failures
	}

	var failures []EntryError

	for _, entry := range entries {
		if err := s.installEntry(ctx, entry, opts, octets); err != nil {
			logger.WarnKV(ctx, "Entry failed",
				"entry", entry.Name, "error", err)

			failures = append(failures, EntryError{Entry: entry.Name, Err: err})

			continue
		}

		logger.InfoKV(ctx, "Entry installed", "entry", entry.Name)
	}

	return failures
}

// installEntry runs one entry start to finish: prerequisites first, then the
// primary installer.
func (s *Service) installEntry(ctx context.Context, entry *domain.Entry, opts *Options, octets []string) error {
	basePath := s.root
	if entry.BasePath != "" {
		basePath = filepath.Join(s.root, filepath.FromSlash(entry.BasePath))
	}

	s.runPrerequisites(ctx, entry)

	if !entry.HasPrimaryInstaller() {
		logger.InfoKV(ctx, "Entry declares no primary installer, skipping",
			"entry", entry.Name)

		return nil
	}

	logger.InfoKV(ctx, "Running primary installer", "entry", entry.Name)

	installerPath := filepath.Join(basePath, filepath.FromSlash(entry.Installer))
	target := TargetDir(opts.InstallDir, entry.Name)
	name, args := invocation(entry, installerPath, target, opts, octets)

	code, err := s.runner.Run(ctx, name, args...)
	if err != nil {
		return fmt.Errorf("run installer: %w", err)
	}

	if code != 0 {
		return fmt.Errorf("%w: %d", errNonZeroExit, code)
	}

	return nil
}

// runPrerequisites executes the entry's auxiliary installers in order.
// Prerequisites are best-effort setup steps: their exit status is logged and
// ignored, and a broken prerequisite never gates the primary installer.
func (s *Service) runPrerequisites(ctx context.Context, entry *domain.Entry) {
	for _, prereq := range entry.Prerequisites {
		prereqPath := filepath.Join(s.root, filepath.FromSlash(prereq.Path))

		logger.InfoKV(ctx, "Running prerequisite",
			"entry", entry.Name, "path", prereqPath)

		code, err := s.runner.Run(ctx, prereqPath, SplitArgs(prereq.Args)...)
		if err != nil {
			logger.WarnKV(ctx, "Prerequisite could not be launched",
				"entry", entry.Name, "path", prereqPath, "error", err)

			continue
		}

		if code != 0 {
			logger.WarnKV(ctx, "Prerequisite exited with non-zero code",
				"entry", entry.Name, "path", prereqPath, "code", code)
		}
	}
}

// invocation builds the argument-list command for the entry's installer family.
// Arguments are discrete tokens handed to the process directly, so values with
// spaces need no shell quoting.
func invocation(entry *domain.Entry, installerPath, target string, opts *Options, octets []string) (string, []string) {
	if entry.Family() == domain.FamilyMSI {
		args := []string{"/i", installerPath, "INSTALLDIR=" + target}

		if entry.SupportsPlayerName && opts.PlayerName != "" {
			args = append(args, "PLAYERNAME="+opts.PlayerName)
		}

		if entry.RequiresServerIP && len(octets) > 0 {
			for i, octet := range octets {
				args = append(args, fmt.Sprintf("SERVERADDRESS%d=%s", i+1, octet))
			}
		}

		// Basic UI so the process never blocks waiting for input.
		args = append(args, "/qb")

		return "msiexec", args
	}

	// Self-extracting setups follow the Inno Setup convention.
	return installerPath, []string{"/SP-", "/SILENT", "/NORESTART", "/DIR=" + target}
}
