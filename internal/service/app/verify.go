package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"

	"github.com/cobralans/cobra-lans/internal/config"
	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/logger"
	"github.com/cobralans/cobra-lans/internal/repository/filter"
	manifestrepo "github.com/cobralans/cobra-lans/internal/repository/manifest"
	"github.com/cobralans/cobra-lans/internal/service/verifier"
)

var (
	// errUnknownMode is returned for a mode other than game or server.
	errUnknownMode = errors.New("mode must be game or server")
	// errProblemsFound signals that at least one entry failed verification.
	errProblemsFound = errors.New("verification found problems")
	// errEntryNotFound is returned when a requested entry is absent.
	errEntryNotFound = errors.New("entry not found in manifest")
)

// VerifyOptions contains inputs for the verification workflow.
type VerifyOptions struct {
	// ConfigPath is an optional path to the settings YAML.
	ConfigPath string
	// ManifestPath overrides the manifest location from the settings.
	ManifestPath string
	// Mode selects the game or server flavor of each entry (defaults to game).
	Mode string
	// Names restricts verification to the named entries; empty means all.
	Names []string
	// Output receives the rendered table (defaults to standard output).
	Output io.Writer
	// FS is the filesystem to verify against (defaults to the OS filesystem).
	FS afero.Fs
	// Cache reuses verification results across runs. Optional.
	Cache *verifier.Cache
	// MetadataReader overrides version extraction. Optional.
	MetadataReader verifier.MetadataReader
}

// RunVerify checks every selected manifest entry against the installers tree
// and renders one table row per entry: the per-file sweep verdict, the
// primary-installer verdict and the on-disk folder size. It returns
// errProblemsFound when any entry is missing files.
func RunVerify(ctx context.Context, opts *VerifyOptions) error {
	ctx = logger.WithName(ctx, "cobra-lans")

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

	verifierOpts := []verifier.Option{verifier.WithConcurrency(cfg.VerifyConcurrency)}
	if opts.MetadataReader != nil {
		verifierOpts = append(verifierOpts, verifier.WithMetadataReader(opts.MetadataReader))
	}

	svc := verifier.NewService(fs, cfg.InstallersDir, verifierOpts...)

	cache := opts.Cache
	if cache == nil {
		cache = verifier.NewCache()
	}

	table := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(table, "NAME\tFILES\tINSTALLER\tSIZE")

	errorCount := 0

	for _, entry := range entries {
		files, primary := verifyEntry(ctx, svc, cache, entry, mode)

		if files.Severity == domain.SeverityError || primary.Severity == domain.SeverityError {
			errorCount++
		}

		size := verifier.FolderSizeLabel(fs, svc.ModeDir(entry, mode))

		fmt.Fprintf(table, "%s\t%s\t%s\t%s\n", entry.Name, files.Label, primary.Label, size)
	}

	if err = table.Flush(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	logger.InfoKV(ctx, "Verification finished",
		"entries", len(entries), "problems", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("%w: %d of %d entries", errProblemsFound, errorCount, len(entries))
	}

	return nil
}

// verifyEntry runs both verification strategies, consulting the cache first.
func verifyEntry(
	ctx context.Context,
	svc *verifier.Service,
	cache *verifier.Cache,
	entry *domain.Entry,
	mode domain.Kind,
) (domain.Assessment, domain.Assessment) {
	result, ok := cache.Files(entry)
	if !ok {
		result = svc.VerifyFiles(ctx, entry, mode)
		cache.SetFiles(entry, result)
	}

	primary, ok := cache.Primary(entry)
	if !ok {
		primary = svc.VerifyPrimary(ctx, entry)
		cache.SetPrimary(entry, primary)
	}

	return verifier.Summarize(result), primary
}

// loadEntries reads the manifest and applies the remote allow-list when one is
// configured. A failed allow-list download degrades to showing everything.
func loadEntries(ctx context.Context, fs afero.Fs, cfg *config.Config, manifestPath string) ([]*domain.Entry, error) {
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath
	}

	repo := manifestrepo.NewFileRepository(fs, manifestPath)

	entries, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	allow, err := filter.Fetch(ctx, cfg.FilterURL)
	if err != nil {
		logger.WarnKV(ctx, "Allow-list unavailable, showing all entries",
			"url", cfg.FilterURL, "error", err)

		return entries, nil
	}

	return allow.Apply(entries), nil
}

// selectEntries keeps entries of the requested mode and, when names are given,
// only the named ones. Every requested name must resolve to an entry.
func selectEntries(entries []*domain.Entry, mode domain.Kind, names []string) ([]*domain.Entry, error) {
	byMode := make([]*domain.Entry, 0, len(entries))

	for _, entry := range entries {
		if entry.Kind == mode {
			byMode = append(byMode, entry)
		}
	}

	if len(names) == 0 {
		return byMode, nil
	}

	selected := make([]*domain.Entry, 0, len(names))

	for _, name := range names {
		found := false

		for _, entry := range byMode {
			if strings.EqualFold(entry.Name, name) {
				selected = append(selected, entry)
				found = true

				break
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: %s", errEntryNotFound, name)
		}
	}

	return selected, nil
}

// parseMode maps the CLI mode flag onto an entry kind. Empty means game.
func parseMode(mode string) (domain.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", string(domain.KindGame):
		return domain.KindGame, nil
	case string(domain.KindServer):
		return domain.KindServer, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownMode, mode)
	}
}
