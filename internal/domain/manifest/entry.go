package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind partitions entries into the two independent install modes.
type Kind string

const (
	// KindGame marks an entry installing the game client.
	KindGame Kind = "game"
	// KindServer marks an entry installing the companion dedicated server.
	KindServer Kind = "server"
)

// InstallerFamily describes how the primary installer is driven.
type InstallerFamily string

const (
	// FamilyMSI is a Windows Installer package driven through msiexec.
	FamilyMSI InstallerFamily = "msi"
	// FamilySelfExtracting is a self-extracting setup executable
	// (Inno Setup style, possibly with companion .bin payload parts).
	FamilySelfExtracting InstallerFamily = "self_extracting"
)

// ChecksumAlgorithm tags the precomputed checksum of a primary installer.
type ChecksumAlgorithm string

const (
	// ChecksumCRC32 is the 32-bit cyclic redundancy check (IEEE polynomial).
	ChecksumCRC32 ChecksumAlgorithm = "crc32"
	// ChecksumSHA256 is the 256-bit cryptographic hash.
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
)

// Checksum is an algorithm-tagged expected checksum value in lowercase hex.
type Checksum struct {
	// Algorithm selects how the value was computed.
	Algorithm ChecksumAlgorithm `yaml:"algorithm"`
	// Value is the expected digest in lowercase hexadecimal.
	Value string `yaml:"value"`
}

// FileRecord declares one file that must be present under the entry's base path.
type FileRecord struct {
	// Path is relative to the entry's base path, slash-separated.
	Path string `yaml:"path"`
	// SHA256 is the expected content hash in lowercase hex.
	// Empty means an existence-only check.
	SHA256 string `yaml:"sha256,omitempty"`
}

// Prerequisite is an auxiliary installer run before the primary installer.
type Prerequisite struct {
	// Path is relative to the application base directory.
	Path string `yaml:"path"`
	// Args is the raw argument string passed to the prerequisite process.
	Args string `yaml:"args,omitempty"`
}

// Entry is one installable unit declared by the manifest: a game or its
// companion server. Uniqueness is keyed by (Name, Kind); entries form no
// relationships among themselves.
type Entry struct {
	// Name is the unique display identifier within its kind.
	Name string `yaml:"name"`
	// Kind selects game or server install mode. Empty defaults to game.
	Kind Kind `yaml:"kind,omitempty"`
	// BasePath is the directory, relative to the installers tree,
	// under which all of this entry's files live.
	BasePath string `yaml:"base_path,omitempty"`
	// Installer is the path of the primary installer, relative to BasePath.
	Installer string `yaml:"installer,omitempty"`
	// Version is the product version the primary installer is expected to report.
	Version string `yaml:"version,omitempty"`
	// Checksum is the precomputed checksum of the primary installer.
	Checksum *Checksum `yaml:"checksum,omitempty"`
	// Files enumerates every file required for this entry to be complete.
	Files []FileRecord `yaml:"files,omitempty"`
	// Prerequisites are run, in order, before the primary installer.
	Prerequisites []Prerequisite `yaml:"prerequisites,omitempty"`
	// SupportsPlayerName enables the player-name installer parameter.
	SupportsPlayerName bool `yaml:"supports_player_name,omitempty"`
	// RequiresServerIP enables the per-octet server address parameters.
	RequiresServerIP bool `yaml:"requires_server_ip,omitempty"`
}

// errEntryNameRequired indicates a manifest entry without mandatory identifying data.
var errEntryNameRequired = errors.New("manifest entry name is required")

// Validate checks mandatory identifying data and applies the kind default.
// A nameless entry is a configuration bug and the only condition the core
// refuses to work with.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errEntryNameRequired
	}

	switch e.Kind {
	case "":
		e.Kind = KindGame
	case KindGame, KindServer:
	default:
		return fmt.Errorf("entry %q: unknown kind %q", e.Name, e.Kind)
	}

	return nil
}

// Key identifies the entry uniquely within the manifest.
func (e *Entry) Key() string {
	return string(e.Kind) + "/" + e.Name
}

// HasPrimaryInstaller reports whether a primary installer is declared.
func (e *Entry) HasPrimaryInstaller() bool {
	return e.Installer != ""
}

// Family derives the installer family from the primary installer extension.
func (e *Entry) Family() InstallerFamily {
	if strings.EqualFold(path.Ext(e.Installer), ".msi") {
		return FamilyMSI
	}

	return FamilySelfExtracting
}
