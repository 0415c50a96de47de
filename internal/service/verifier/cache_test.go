package verifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// TestCache stores results per entry identity and drops them on invalidation.
func TestCache(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	game := &domain.Entry{Name: "Quake", Kind: domain.KindGame}
	server := &domain.Entry{Name: "Quake", Kind: domain.KindServer}

	_, ok := cache.Files(game)
	require.False(t, ok)

	result := domain.Result{"a.bin": domain.StatusOK}
	cache.SetFiles(game, result)
	cache.SetPrimary(game, domain.Assessment{Label: LabelOK, Severity: domain.SeveritySuccess})

	got, ok := cache.Files(game)
	require.True(t, ok)
	require.Equal(t, result, got)

	// Same name, different kind is a different identity.
	_, ok = cache.Files(server)
	require.False(t, ok)

	cache.Invalidate(game)

	_, ok = cache.Files(game)
	require.False(t, ok)
	_, ok = cache.Primary(game)
	require.False(t, ok)
}

// TestCacheReset drops everything at once.
func TestCacheReset(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	entry := &domain.Entry{Name: "Doom", Kind: domain.KindGame}

	cache.SetFiles(entry, domain.Result{})
	cache.Reset()

	_, ok := cache.Files(entry)
	require.False(t, ok)
}
