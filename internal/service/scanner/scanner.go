package scanner

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/logger"
	"github.com/cobralans/cobra-lans/internal/service/verifier"
)

// serverNameSuffix distinguishes companion server entries from their games.
const serverNameSuffix = " Server"

// manualEntry carries the manifest fields that are configured by hand and must
// survive regeneration.
type manualEntry struct {
	supportsPlayerName bool
	requiresServerIP   bool
	prerequisites      []domain.Prerequisite
}

// Service regenerates the games manifest from the installers tree: it walks
// each game folder, hashes its files, fingerprints the primary installer and
// reads its embedded product version.
type Service struct {
	// fs is the filesystem holding the installers tree.
	fs afero.Fs
	// root is the installers tree directory.
	root string
	// meta extracts embedded product versions from installer files.
	meta verifier.MetadataReader
	// ignore filters out scratch files by slash-relative path.
	ignore []glob.Glob
}

// Option customizes the scanner service.
type Option func(*Service)

// WithMetadataReader replaces the default PowerShell metadata reader.
func WithMetadataReader(r verifier.MetadataReader) Option {
	return func(s *Service) {
		s.meta = r
	}
}

// NewService creates a scanner over the provided filesystem and installers root.
// Ignore patterns are glob-matched against slash-relative paths within each
// scanned folder.
func NewService(fs afero.Fs, root string, ignorePatterns []string, opts ...Option) (*Service, error) {
	s := &Service{
		fs:   fs,
		root: root,
		meta: verifier.NewPowerShellReader(),
	}

	for _, pattern := range ignorePatterns {
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}

		s.ignore = append(s.ignore, compiled)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Scan rebuilds the manifest from the filesystem. Fields that are configured
// manually (capability flags, prerequisites) are carried forward from the
// previous entries; everything else is re-derived. A game folder with a
// "server" subdirectory additionally yields a companion server entry.
func (s *Service) Scan(ctx context.Context, previous []*domain.Entry) ([]*domain.Entry, error) {
	manual := manualFields(previous)

	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("read installers dir: %w", err)
	}

	var entries []*domain.Entry

	for _, info := range infos {
		if !info.IsDir() {
			continue
		}

		scanned, err := s.scanGameDir(ctx, info.Name(), manual)
		if err != nil {
			return nil, err
		}

		entries = append(entries, scanned...)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}

		return entries[i].Kind < entries[j].Kind
	})

	logger.InfoKV(ctx, "Scanned installers tree", "root", s.root, "entries", len(entries))

	return entries, nil
}

// scanGameDir produces the game entry for one folder and, when a server
// subdirectory exists, its companion server entry.
func (s *Service) scanGameDir(ctx context.Context, name string, manual map[string]manualEntry) ([]*domain.Entry, error) {
	base := filepath.Join(s.root, name)

	gameDir := findSubdir(s.fs, base, string(domain.KindGame))
	serverDir := findSubdir(s.fs, base, string(domain.KindServer))

	// Flat layouts keep everything directly under the game folder.
	gamePrefix := gameDir
	if gamePrefix == "" && serverDir == "" {
		gamePrefix = "."
	}

	var entries []*domain.Entry

	if gamePrefix != "" {
		entry, err := s.buildEntry(ctx, name, domain.KindGame, base, gamePrefix, manual)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if serverDir != "" {
		entry, err := s.buildEntry(ctx, name+serverNameSuffix, domain.KindServer, base, serverDir, manual)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// buildEntry scans one mode subdirectory into a manifest entry.
func (s *Service) buildEntry(
	ctx context.Context,
	name string,
	kind domain.Kind,
	base, subdir string,
	manual map[string]manualEntry,
) (*domain.Entry, error) {
	scanDir := base
	installerPrefix := ""

	if subdir != "." {
		scanDir = filepath.Join(base, subdir)
		installerPrefix = subdir
	}

	records, primary, err := s.collectFiles(scanDir)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		Name:     name,
		Kind:     kind,
		BasePath: filepath.Base(base),
		Files:    records,
	}

	if primary != "" {
		entry.Installer = path.Join(installerPrefix, primary)

		fullPath := filepath.Join(scanDir, filepath.FromSlash(primary))

		crc, err := verifier.CRC32File(s.fs, fullPath)
		if err != nil {
			return nil, fmt.Errorf("checksum %s: %w", fullPath, err)
		}

		entry.Checksum = &domain.Checksum{
			Algorithm: domain.ChecksumCRC32,
			Value:     crc,
		}

		// Metadata extraction is best-effort: unavailable tooling or a
		// malformed package leaves the version empty.
		if version, err := s.meta.ProductVersion(ctx, fullPath); err == nil {
			entry.Version = version
		} else {
			logger.DebugKV(ctx, "Version metadata unavailable",
				"path", fullPath, "error", err)
		}
	}

	applyManualFields(entry, manual)

	return entry, nil
}

// collectFiles walks one mode directory and returns hash records for every
// file (slash-relative to the directory) plus the detected primary installer.
// MSI packages take precedence; otherwise the first setup executable wins.
func (s *Service) collectFiles(dir string) ([]domain.FileRecord, string, error) {
	var files []string

	err := afero.Walk(s.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info == nil || !info.Mode().IsRegular() {
			return nil //nolint:nilerr // Unreadable children are simply not listed.
		}

		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return nil //nolint:nilerr // Paths outside dir cannot be recorded.
		}

		rel = filepath.ToSlash(rel)
		if s.ignored(rel) {
			return nil
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(files)

	records := make([]domain.FileRecord, 0, len(files))

	for _, rel := range files {
		hash, err := verifier.HashFile(s.fs, filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, "", fmt.Errorf("hash %s: %w", rel, err)
		}

		records = append(records, domain.FileRecord{Path: rel, SHA256: hash})
	}

	return records, detectPrimary(files), nil
}

// detectPrimary picks the primary installer among the collected files.
func detectPrimary(files []string) string {
	var firstExe string

	for _, rel := range files {
		switch strings.ToLower(path.Ext(rel)) {
		case ".msi":
			return rel
		case ".exe":
			if firstExe == "" {
				firstExe = rel
			}
		}
	}

	return firstExe
}

// ignored reports whether the slash-relative path matches an ignore pattern.
func (s *Service) ignored(rel string) bool {
	for _, pattern := range s.ignore {
		if pattern.Match(rel) {
			return true
		}
	}

	return false
}

// findSubdir returns the name of the case-insensitive child directory match,
// or empty when none exists.
func findSubdir(fs afero.Fs, base, name string) string {
	infos, err := afero.ReadDir(fs, base)
	if err != nil {
		return ""
	}

	for _, info := range infos {
		if info.IsDir() && strings.EqualFold(info.Name(), name) {
			return info.Name()
		}
	}

	return ""
}

// manualFields indexes the hand-configured fields of previous entries by name.
func manualFields(previous []*domain.Entry) map[string]manualEntry {
	manual := make(map[string]manualEntry, len(previous))

	for _, entry := range previous {
		manual[entry.Name] = manualEntry{
			supportsPlayerName: entry.SupportsPlayerName,
			requiresServerIP:   entry.RequiresServerIP,
			prerequisites:      entry.Prerequisites,
		}
	}

	return manual
}

// applyManualFields carries hand-configured fields forward. A server entry
// that did not exist before the game/server split falls back to its game's
// settings.
func applyManualFields(entry *domain.Entry, manual map[string]manualEntry) {
	fields, ok := manual[entry.Name]
	if !ok && strings.HasSuffix(entry.Name, serverNameSuffix) {
		fields, ok = manual[strings.TrimSuffix(entry.Name, serverNameSuffix)]
	}

	if !ok {
		return
	}

	entry.SupportsPlayerName = fields.supportsPlayerName
	entry.RequiresServerIP = fields.requiresServerIP
	entry.Prerequisites = append([]domain.Prerequisite(nil), fields.prerequisites...)
}
