package verifier

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// sizeUnits are the thresholds rendered by FolderSizeLabel.
var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FolderSizeLabel returns a human-readable total size of all files under dir,
// or "—" when the directory is absent or empty.
func FolderSizeLabel(fs afero.Fs, dir string) string {
	var total int64

	err := afero.Walk(fs, dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable children just don't count towards the total.
			return nil //nolint:nilerr // Size display is best-effort.
		}

		if info != nil && info.Mode().IsRegular() {
			total += info.Size()
		}

		return nil
	})
	if err != nil || total == 0 {
		return "—"
	}

	size := float64(total)
	for _, unit := range sizeUnits {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}

		size /= 1024.0
	}

	return fmt.Sprintf("%.1f TB", size)
}
