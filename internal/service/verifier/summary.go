package verifier

import (
	"fmt"
	"strings"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
)

// Display labels shared by the file summary and the primary-installer check.
const (
	LabelOK             = "✓ OK"
	LabelMissing        = "✗ missing"
	LabelMismatch       = "✗ mismatch"
	LabelVersionDiffers = "✗ version differs"
	LabelNoFiles        = "— no files"
	LabelNoInstaller    = "— no installer"
	LabelNoChecksum     = "— no checksum"
	LabelNoVersionInfo  = "— no version info"
)

// Summarize collapses a per-file result map into one display-ready verdict:
// neutral "no files" for an empty map, success "OK" when everything matches,
// otherwise a count of missing and mismatched files with error severity if
// anything is missing and warning severity otherwise.
func Summarize(result domain.Result) domain.Assessment {
	if len(result) == 0 {
		return domain.Assessment{Label: LabelNoFiles, Severity: domain.SeverityNeutral}
	}

	missing, mismatch := result.Counts()
	if missing == 0 && mismatch == 0 {
		return domain.Assessment{Label: LabelOK, Severity: domain.SeveritySuccess}
	}

	parts := make([]string, 0, 2)

	if missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", missing))
	}

	if mismatch > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatch", mismatch))
	}

	severity := domain.SeverityWarning
	if missing > 0 {
		severity = domain.SeverityError
	}

	return domain.Assessment{
		Label:    "✗ " + strings.Join(parts, ", "),
		Severity: severity,
	}
}
