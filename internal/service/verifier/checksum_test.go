package verifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// TestHashFile matches the streamed digest against a direct computation.
func TestHashFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	content := []byte("some installer bytes")
	require.NoError(t, afero.WriteFile(fs, "setup.msi", content, 0o644))

	sum := sha256.Sum256(content)

	got, err := HashFile(fs, "setup.msi")
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(sum[:]), got)
}

// TestCRC32File produces the zero-padded IEEE checksum.
func TestCRC32File(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	content := []byte("payload")
	require.NoError(t, afero.WriteFile(fs, "setup.exe", content, 0o644))

	got, err := CRC32File(fs, "setup.exe")
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%08x", crc32.ChecksumIEEE(content)), got)
	require.Len(t, got, 8)
}

// TestChecksumFile dispatches on the algorithm tag.
func TestChecksumFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "f.bin", []byte("x"), 0o644))

	sha, err := ChecksumFile(fs, "f.bin", domain.ChecksumSHA256)
	require.NoError(t, err)
	require.Len(t, sha, 64)

	crc, err := ChecksumFile(fs, "f.bin", domain.ChecksumCRC32)
	require.NoError(t, err)
	require.Len(t, crc, 8)

	_, err = ChecksumFile(fs, "f.bin", "md5")
	require.ErrorIs(t, err, errUnknownAlgorithm)

	_, err = HashFile(fs, "absent.bin")
	require.Error(t, err)
}
