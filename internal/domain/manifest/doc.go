// Package manifest defines the data model shared by the verifier, the install
// orchestrator and the scanner: the Entry describing one installable unit, the
// verification status vocabulary and the severity tiers used for display.
//
// The model is a flat collection of entries keyed by (name, kind). An entry
// carries up to three optional verification expectations (per-file hash list,
// primary-installer checksum, embedded product version); which fields are
// populated decides which verification strategies apply.
package manifest
