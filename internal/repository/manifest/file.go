package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cobralans/cobra-lans/internal/config"
	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// Repository defines persistence operations for the games manifest.
type Repository interface {
	Load(ctx context.Context) ([]*domain.Entry, error)
	Save(ctx context.Context, entries []*domain.Entry) error
}

// FileRepository persists the manifest as YAML on disk (or any afero filesystem).
type FileRepository struct {
	// fs is the filesystem the manifest is read from and written to.
	fs afero.Fs
	// path is the location of the manifest YAML file.
	path string
	// mu protects concurrent access to the manifest file.
	mu sync.Mutex
}

// document is the YAML shape of the manifest file.
type document struct {
	Games []*domain.Entry `yaml:"games"`
}

// ErrNotFound is returned when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

const (
	// DefaultRelativePath is where the manifest lives relative to its search roots.
	DefaultRelativePath = "config/games.yaml"

	// filePermissions is used when writing the manifest.
	filePermissions os.FileMode = 0o644
)

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
// An empty path resolves through the default search order.
func NewFileRepository(fs afero.Fs, path string) *FileRepository {
	if path == "" {
		path = DefaultPath(fs)
	}

	return &FileRepository{
		fs:   fs,
		path: filepath.Clean(path),
	}
}

// Path returns the resolved manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and validates the manifest.
func (r *FileRepository) Load(_ context.Context) ([]*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc document
	if err = yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	for _, entry := range doc.Games {
		if err = entry.Validate(); err != nil {
			return nil, fmt.Errorf("invalid manifest: %w", err)
		}
	}

	return doc.Games, nil
}

// Save validates and writes the manifest, creating parent directories as needed.
func (r *FileRepository) Save(_ context.Context, entries []*domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}
	}

	data, err := yaml.Marshal(document{Games: entries})
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = r.fs.MkdirAll(filepath.Dir(r.path), config.DefaultFileMode); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	if err = afero.WriteFile(r.fs, r.path, data, filePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// DefaultPath resolves the manifest location by search order:
// the working directory first, then the directory next to the executable.
// When neither candidate exists, the executable-dir candidate is returned so
// callers surface a meaningful "not found" path.
func DefaultPath(fs afero.Fs) string {
	candidates := make([]string, 0, 2)

	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, DefaultRelativePath))
	}

	exeCandidate := DefaultRelativePath

	if exe, err := os.Executable(); err == nil {
		exeCandidate = filepath.Join(filepath.Dir(exe), DefaultRelativePath)
	}

	candidates = append(candidates, exeCandidate)

	for _, candidate := range candidates {
		if ok, err := afero.Exists(fs, candidate); err == nil && ok {
			return candidate
		}
	}

	return exeCandidate
}
