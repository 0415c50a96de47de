package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the Cobra LANs binaries.
type Config struct {
	// InstallersDir is the directory tree holding per-game installer folders.
	InstallersDir string `yaml:"installers_dir"`
	// ManifestPath is the path to the games manifest YAML.
	// Empty means the default search order (working dir, then executable dir).
	ManifestPath string `yaml:"manifest_path"`
	// DefaultInstallDir is the install target offered when none is given.
	DefaultInstallDir string `yaml:"default_install_dir"`
	// FilterURL is an optional URL of a remote allow-list of entry names.
	FilterURL string `yaml:"filter_url"`
	// VerifyConcurrency caps concurrent file checks per entry (0 = number of CPUs).
	VerifyConcurrency int `yaml:"verify_concurrency"`
}

const (
	// DefaultConfigFilename is the default filename for application settings.
	DefaultConfigFilename = "cobra-lans-settings.yaml"

	// DefaultInstallersDir is the default installers tree location.
	DefaultInstallersDir = "Installers"

	// DefaultInstallDir is the install target offered when no setting is present.
	DefaultInstallDir = `C:\Games`

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// DefaultFileMode is used when creating directories and produced artifacts.
	DefaultFileMode os.FileMode = 0o755
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeConcurrency is returned when verify_concurrency is below zero.
	errNegativeConcurrency = errors.New("verify concurrency must not be negative")
)

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: defaults are returned so the binaries work
// out of the box next to an Installers folder.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := new(Config)
			if err = Validate(cfg); err != nil {
				return nil, err
			}

			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and applies defaults for unset fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.InstallersDir == "" {
		cfg.InstallersDir = DefaultInstallersDir
	}

	if cfg.DefaultInstallDir == "" {
		cfg.DefaultInstallDir = DefaultInstallDir
	}

	if cfg.VerifyConcurrency < 0 {
		return errNegativeConcurrency
	}

	if cfg.VerifyConcurrency == 0 {
		cfg.VerifyConcurrency = runtime.NumCPU()
	}

	if cfg.FilterURL == "" {
		return nil
	}

	if _, err := url.ParseRequestURI(cfg.FilterURL); err != nil {
		return fmt.Errorf("invalid filter URL: %w", err)
	}

	return nil
}
