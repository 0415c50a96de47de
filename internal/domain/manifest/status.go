package manifest

// FileStatus is the per-file outcome of a verification sweep.
type FileStatus string

const (
	// StatusOK means the file exists and its hash matches.
	StatusOK FileStatus = "ok"
	// StatusMissing means the file does not exist on disk
	// (or could not be read at all).
	StatusMissing FileStatus = "missing"
	// StatusMismatch means the file exists but its content hash differs.
	StatusMismatch FileStatus = "mismatch"
)

// Result maps each declared relative path to its verification status.
// An empty result means the entry declares nothing to verify.
type Result map[string]FileStatus

// Counts returns how many files are missing and how many mismatch.
func (r Result) Counts() (missing, mismatch int) {
	for _, status := range r {
		switch status {
		case StatusMissing:
			missing++
		case StatusMismatch:
			mismatch++
		case StatusOK:
		}
	}

	return missing, mismatch
}

// Severity classifies a verification label for display purposes.
type Severity int

const (
	// SeverityNeutral marks informational states ("no files", "no checksum").
	SeverityNeutral Severity = iota
	// SeveritySuccess marks a fully intact entry.
	SeveritySuccess
	// SeverityWarning marks present-but-disagreeing content.
	SeverityWarning
	// SeverityError marks missing files.
	SeverityError
)

// String renders the severity tier name.
func (s Severity) String() string {
	switch s {
	case SeverityNeutral:
		return "neutral"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Assessment is a display-ready verification verdict.
type Assessment struct {
	// Label is the human-readable status text.
	Label string
	// Severity is the display tier for the label.
	Severity Severity
}
