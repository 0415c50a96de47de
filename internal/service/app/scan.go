package app

import (
	"context"
	"errors"

	"github.com/spf13/afero"

	"github.com/cobralans/cobra-lans/internal/config"
	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/logger"
	manifestrepo "github.com/cobralans/cobra-lans/internal/repository/manifest"
	"github.com/cobralans/cobra-lans/internal/service/scanner"
	"github.com/cobralans/cobra-lans/internal/service/verifier"
)

// ScanOptions contains inputs for the manifest regeneration workflow.
type ScanOptions struct {
	// ConfigPath is an optional path to the settings YAML.
	ConfigPath string
	// InstallersDir overrides the configured installers tree location.
	InstallersDir string
	// ManifestPath overrides the manifest location from the settings.
	ManifestPath string
	// IgnorePatterns are glob patterns for files to leave out of the manifest.
	IgnorePatterns []string
	// FS is the filesystem to scan (defaults to the OS filesystem).
	FS afero.Fs
	// MetadataReader overrides version extraction. Optional.
	MetadataReader verifier.MetadataReader
}

// RunScan rebuilds the games manifest from the installers tree and saves it,
// carrying the manually configured fields of the previous manifest forward.
func RunScan(ctx context.Context, opts *ScanOptions) error {
	ctx = logger.WithName(ctx, "cobra-lans-scanner")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	root := opts.InstallersDir
	if root == "" {
		root = cfg.InstallersDir
	}

	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath
	}

	repo := manifestrepo.NewFileRepository(fs, manifestPath)

	// A missing manifest means a first run: there is nothing to carry forward.
	previous, err := repo.Load(ctx)
	if err != nil && !errors.Is(err, manifestrepo.ErrNotFound) {
		return err
	}

	scannerOpts := make([]scanner.Option, 0, 1)
	if opts.MetadataReader != nil {
		scannerOpts = append(scannerOpts, scanner.WithMetadataReader(opts.MetadataReader))
	}

	svc, err := scanner.NewService(fs, root, opts.IgnorePatterns, scannerOpts...)
	if err != nil {
		return err
	}

	entries, err := svc.Scan(ctx, previous)
	if err != nil {
		return err
	}

	if err = repo.Save(ctx, entries); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Manifest saved",
		"path", repo.Path(), "entries", len(entries), "games", countKind(entries, domain.KindGame))

	return nil
}

// countKind counts the entries of one kind.
func countKind(entries []*domain.Entry, kind domain.Kind) int {
	count := 0

	for _, entry := range entries {
		if entry.Kind == kind {
			count++
		}
	}

	return count
}
