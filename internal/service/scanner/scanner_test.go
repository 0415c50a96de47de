package scanner

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/service/verifier"
)

// staticMetadataReader answers every lookup with one version string.
type staticMetadataReader struct {
	version string
}

func (r staticMetadataReader) ProductVersion(_ context.Context, _ string) (string, error) {
	return r.version, nil
}

// writeTree creates a small installers tree with a split game and a flat game.
func writeTree(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"Installers/Quake III Arena/Game/setup.msi":    "msi payload",
		"Installers/Quake III Arena/Game/data1.cab":    "cab payload",
		"Installers/Quake III Arena/Server/setup.msi":  "server msi",
		"Installers/Painkiller/setup.exe":              "exe payload",
		"Installers/Painkiller/setup-1.bin":            "bin payload",
		"Installers/Painkiller/Thumbs.db":              "junk",
	}
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}

	return fs
}

// TestScanRegeneratesEntries derives entries, hashes, checksums and versions
// from the tree.
func TestScanRegeneratesEntries(t *testing.T) {
	t.Parallel()

	fs := writeTree(t)
	svc, err := NewService(fs, "Installers", []string{"Thumbs.db"},
		WithMetadataReader(staticMetadataReader{version: "1.32"}))
	require.NoError(t, err)

	entries, err := svc.Scan(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Sorted by name: Painkiller, Quake III Arena, Quake III Arena Server.
	painkiller := entries[0]
	require.Equal(t, "Painkiller", painkiller.Name)
	require.Equal(t, domain.KindGame, painkiller.Kind)
	require.Equal(t, "setup.exe", painkiller.Installer)
	require.Equal(t, domain.FamilySelfExtracting, painkiller.Family())

	// The ignored file is neither hashed nor listed.
	for _, record := range painkiller.Files {
		require.NotEqual(t, "Thumbs.db", record.Path)
	}

	require.Len(t, painkiller.Files, 2)

	game := entries[1]
	require.Equal(t, "Quake III Arena", game.Name)
	require.Equal(t, "Game/setup.msi", game.Installer)
	require.Equal(t, "1.32", game.Version)
	require.NotNil(t, game.Checksum)
	require.Equal(t, domain.ChecksumCRC32, game.Checksum.Algorithm)

	wantCRC, err := verifier.CRC32File(fs, "Installers/Quake III Arena/Game/setup.msi")
	require.NoError(t, err)
	require.Equal(t, wantCRC, game.Checksum.Value)

	// File records are relative to the mode directory and carry SHA-256.
	require.Equal(t, []string{"data1.cab", "setup.msi"},
		[]string{game.Files[0].Path, game.Files[1].Path})

	wantHash, err := verifier.HashFile(fs, "Installers/Quake III Arena/Game/data1.cab")
	require.NoError(t, err)
	require.Equal(t, wantHash, game.Files[0].SHA256)

	server := entries[2]
	require.Equal(t, "Quake III Arena Server", server.Name)
	require.Equal(t, domain.KindServer, server.Kind)
	require.Equal(t, "Server/setup.msi", server.Installer)
	require.Equal(t, "Quake III Arena", server.BasePath)
}

// TestScanPreservesManualFields carries flags and prerequisites across
// regeneration, with server entries falling back to their game's settings.
func TestScanPreservesManualFields(t *testing.T) {
	t.Parallel()

	fs := writeTree(t)
	svc, err := NewService(fs, "Installers", nil,
		WithMetadataReader(staticMetadataReader{}))
	require.NoError(t, err)

	previous := []*domain.Entry{
		{
			Name:               "Quake III Arena",
			SupportsPlayerName: true,
			RequiresServerIP:   true,
			Prerequisites: []domain.Prerequisite{
				{Path: "Redist/directx.exe", Args: "/silent"},
			},
		},
	}

	entries, err := svc.Scan(context.Background(), previous)
	require.NoError(t, err)

	var game, server *domain.Entry

	for _, entry := range entries {
		switch entry.Name {
		case "Quake III Arena":
			game = entry
		case "Quake III Arena Server":
			server = entry
		}
	}

	require.NotNil(t, game)
	require.True(t, game.SupportsPlayerName)
	require.True(t, game.RequiresServerIP)
	require.Len(t, game.Prerequisites, 1)

	// First regeneration after the game/server split: the server entry
	// inherits the game's manual settings.
	require.NotNil(t, server)
	require.True(t, server.SupportsPlayerName)
	require.Equal(t, game.Prerequisites, server.Prerequisites)
}

// TestScanRoundTripsWithVerifier ensures scanned entries verify clean against
// the same tree.
func TestScanRoundTripsWithVerifier(t *testing.T) {
	t.Parallel()

	fs := writeTree(t)
	svc, err := NewService(fs, "Installers", nil,
		WithMetadataReader(staticMetadataReader{}))
	require.NoError(t, err)

	entries, err := svc.Scan(context.Background(), nil)
	require.NoError(t, err)

	check := verifier.NewService(fs, "Installers", verifier.WithConcurrency(2))

	for _, entry := range entries {
		result := check.VerifyFiles(context.Background(), entry, entry.Kind)
		summary := verifier.Summarize(result)
		require.Equal(t, verifier.LabelOK, summary.Label, entry.Name)
	}
}

// TestNewServiceRejectsBadPattern surfaces glob compilation errors.
func TestNewServiceRejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := NewService(afero.NewMemMapFs(), "Installers", []string{"[bad"})
	require.Error(t, err)
}
