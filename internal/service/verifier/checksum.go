package verifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	"github.com/spf13/afero"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// hashChunkSize bounds memory while hashing arbitrarily large installers.
const hashChunkSize = 1 << 20

// errUnknownAlgorithm indicates a checksum algorithm the verifier cannot compute.
var errUnknownAlgorithm = fmt.Errorf("unknown checksum algorithm")

// HashFile returns the lowercase hex SHA-256 digest of the file,
// computed in fixed-size chunks.
func HashFile(fs afero.Fs, path string) (string, error) {
	return digestFile(fs, path, sha256.New())
}

// CRC32File returns the lowercase hex IEEE CRC-32 of the file,
// zero-padded to eight characters.
func CRC32File(fs afero.Fs, path string) (string, error) {
	return digestFile(fs, path, crc32.NewIEEE())
}

// ChecksumFile computes the file digest for the requested algorithm.
func ChecksumFile(fs afero.Fs, path string, algorithm domain.ChecksumAlgorithm) (string, error) {
	switch algorithm {
	case domain.ChecksumSHA256:
		return HashFile(fs, path)
	case domain.ChecksumCRC32:
		return CRC32File(fs, path)
	default:
		return "", fmt.Errorf("%q: %w", algorithm, errUnknownAlgorithm)
	}
}

// digestFile streams the file through the hash in bounded chunks.
func digestFile(fs afero.Fs, path string, h hash.Hash) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	buffer := make([]byte, hashChunkSize)
	if _, err = io.CopyBuffer(h, file, buffer); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
