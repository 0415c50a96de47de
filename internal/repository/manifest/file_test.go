package manifest

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// TestSaveLoadRoundtrip persists a manifest and reads it back unchanged.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	repo := NewFileRepository(fs, "config/games.yaml")
	ctx := context.Background()

	entries := []*domain.Entry{
		{
			Name:      "Quake III Arena",
			BasePath:  "Quake III Arena",
			Installer: "game/setup.msi",
			Version:   "1.32",
			Checksum:  &domain.Checksum{Algorithm: domain.ChecksumCRC32, Value: "89abcdef"},
			Files: []domain.FileRecord{
				{Path: "game/setup.msi", SHA256: "aa"},
				{Path: "game/data1.cab"},
			},
			SupportsPlayerName: true,
		},
		{
			Name:     "Quake III Arena Server",
			Kind:     domain.KindServer,
			BasePath: "Quake III Arena",
			Prerequisites: []domain.Prerequisite{
				{Path: "Redist/directx.exe", Args: "/silent"},
			},
		},
	}

	require.NoError(t, repo.Save(ctx, entries))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, domain.KindGame, loaded[0].Kind)
	require.Equal(t, entries[0].Checksum, loaded[0].Checksum)
	require.Equal(t, entries[0].Files, loaded[0].Files)
	require.Equal(t, entries[1].Prerequisites, loaded[1].Prerequisites)
}

// TestLoadMissing reports ErrNotFound for an absent manifest.
func TestLoadMissing(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(afero.NewMemMapFs(), "config/games.yaml")

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestLoadRejectsNamelessEntry treats missing identifying data as a config bug.
func TestLoadRejectsNamelessEntry(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config/games.yaml", []byte("games:\n  - base_path: x\n"), 0o644))

	repo := NewFileRepository(fs, "config/games.yaml")

	_, err := repo.Load(context.Background())
	require.Error(t, err)
}
