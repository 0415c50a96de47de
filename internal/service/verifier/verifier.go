package verifier

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/remeh/sizedwaitgroup"
	"github.com/spf13/afero"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/logger"
)

// Service answers "is this entry's on-disk installation intact?" without
// mutating the filesystem. Per-file checks run concurrently; a single bad file
// never aborts the entry's verification sweep.
type Service struct {
	// fs is the filesystem holding the installers tree.
	fs afero.Fs
	// root is the installers tree directory all entry base paths live under.
	root string
	// concurrency caps concurrent file checks per sweep.
	concurrency int
	// meta extracts embedded product versions from installer files.
	meta MetadataReader
}

// Option customizes the verifier service.
type Option func(*Service)

// WithConcurrency caps concurrent file checks per sweep (values below one
// are replaced with the number of CPUs).
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

// WithMetadataReader replaces the default PowerShell metadata reader.
func WithMetadataReader(r MetadataReader) Option {
	return func(s *Service) {
		s.meta = r
	}
}

// NewService creates a verifier over the provided filesystem and installers root.
func NewService(fs afero.Fs, root string, opts ...Option) *Service {
	s := &Service{
		fs:   fs,
		root: root,
		meta: NewPowerShellReader(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.concurrency < 1 {
		s.concurrency = runtime.NumCPU()
	}

	return s
}

// ModeDir resolves the directory holding the entry's files for the requested
// mode: a case-insensitive "game"/"server" child of the base path when one
// exists, the base path itself otherwise.
func (s *Service) ModeDir(entry *domain.Entry, mode domain.Kind) string {
	base := s.baseDir(entry)

	target := string(domain.KindGame)
	if mode == domain.KindServer {
		target = string(domain.KindServer)
	}

	infos, err := afero.ReadDir(s.fs, base)
	if err != nil {
		return base
	}

	for _, info := range infos {
		if info.IsDir() && strings.EqualFold(info.Name(), target) {
			return filepath.Join(base, info.Name())
		}
	}

	return base
}

// VerifyFiles compares every declared file record against disk and returns the
// per-file status map. Entries with no file records yield an empty map, which
// callers render as the neutral "no files" state. File checks run concurrently;
// each record owns exactly one result slot, so no writes contend.
func (s *Service) VerifyFiles(ctx context.Context, entry *domain.Entry, mode domain.Kind) domain.Result {
	result := make(domain.Result, len(entry.Files))
	if len(entry.Files) == 0 {
		return result
	}

	base := s.ModeDir(entry, mode)
	statuses := make([]domain.FileStatus, len(entry.Files))
	swg := sizedwaitgroup.New(s.concurrency)

	for i, record := range entry.Files {
		swg.Add()

		go func(i int, record domain.FileRecord) {
			defer swg.Done()

			statuses[i] = s.checkFile(base, record)
		}(i, record)
	}

	swg.Wait()

	for i, record := range entry.Files {
		result[record.Path] = statuses[i]
	}

	logger.DebugKV(ctx, "Verified entry files",
		"entry", entry.Key(), "mode", mode, "files", len(result))

	return result
}

// checkFile verifies one file record. Filesystem errors of any kind surface as
// StatusMissing so one unreadable file cannot abort the sweep.
func (s *Service) checkFile(base string, record domain.FileRecord) domain.FileStatus {
	fullPath := filepath.Join(base, filepath.FromSlash(record.Path))

	if _, err := s.fs.Stat(fullPath); err != nil {
		return domain.StatusMissing
	}

	// No expected hash: existence is enough.
	if record.SHA256 == "" {
		return domain.StatusOK
	}

	computed, err := HashFile(s.fs, fullPath)
	if err != nil {
		return domain.StatusMissing
	}

	if strings.EqualFold(computed, record.SHA256) {
		return domain.StatusOK
	}

	return domain.StatusMismatch
}

// VerifyPrimary judges the entry by its single primary installer: against the
// precomputed checksum when one is declared, otherwise against the embedded
// product version. Used for entries that designate one file instead of
// enumerating a file list.
func (s *Service) VerifyPrimary(ctx context.Context, entry *domain.Entry) domain.Assessment {
	if !entry.HasPrimaryInstaller() {
		return domain.Assessment{Label: LabelNoInstaller, Severity: domain.SeverityNeutral}
	}

	fullPath := filepath.Join(s.baseDir(entry), filepath.FromSlash(entry.Installer))

	if _, err := s.fs.Stat(fullPath); err != nil {
		return domain.Assessment{Label: LabelMissing, Severity: domain.SeverityError}
	}

	if entry.Checksum != nil {
		return s.verifyChecksum(ctx, entry, fullPath)
	}

	if entry.Version != "" {
		return s.verifyVersion(ctx, entry, fullPath)
	}

	return domain.Assessment{Label: LabelNoChecksum, Severity: domain.SeverityNeutral}
}

// verifyChecksum compares the installer digest with the declared checksum.
func (s *Service) verifyChecksum(ctx context.Context, entry *domain.Entry, fullPath string) domain.Assessment {
	computed, err := ChecksumFile(s.fs, fullPath, entry.Checksum.Algorithm)
	if err != nil {
		logger.WarnKV(ctx, "Checksum computation failed",
			"entry", entry.Key(), "path", fullPath, "error", err)

		return domain.Assessment{Label: LabelMissing, Severity: domain.SeverityError}
	}

	if strings.EqualFold(computed, entry.Checksum.Value) {
		return domain.Assessment{Label: LabelOK, Severity: domain.SeveritySuccess}
	}

	return domain.Assessment{Label: LabelMismatch, Severity: domain.SeverityWarning}
}

// verifyVersion compares the embedded product version with the expectation.
// Extraction failure degrades to the neutral "no version info" state.
func (s *Service) verifyVersion(ctx context.Context, entry *domain.Entry, fullPath string) domain.Assessment {
	installed, err := s.meta.ProductVersion(ctx, fullPath)
	if err != nil || installed == "" {
		if err != nil {
			logger.DebugKV(ctx, "Version metadata unavailable",
				"entry", entry.Key(), "path", fullPath, "error", err)
		}

		return domain.Assessment{Label: LabelNoVersionInfo, Severity: domain.SeverityNeutral}
	}

	if installed == entry.Version {
		return domain.Assessment{Label: LabelOK, Severity: domain.SeveritySuccess}
	}

	return domain.Assessment{Label: LabelVersionDiffers, Severity: domain.SeverityWarning}
}

// baseDir returns the absolute base directory of the entry.
func (s *Service) baseDir(entry *domain.Entry) string {
	if entry.BasePath == "" {
		return s.root
	}

	return filepath.Join(s.root, filepath.FromSlash(entry.BasePath))
}
