// Package verifier implements the integrity verifier: it judges whether an
// entry's on-disk installers are intact without mutating the filesystem.
//
// Three interchangeable strategies share one result shape, selected by which
// optional manifest fields are populated:
//   - VerifyFiles checks every declared file record against its SHA-256,
//     concurrently, and Summarize collapses the sweep into a display verdict;
//   - VerifyPrimary checks the single primary installer against a precomputed
//     CRC-32/SHA-256 checksum;
//   - VerifyPrimary falls back to comparing the installer's embedded product
//     version when only a version expectation is declared.
//
// Per-file filesystem errors surface as StatusMissing and metadata extraction
// failures degrade to a neutral state, so one bad file never aborts a sweep.
// The Cache keeps results per entry identity until explicitly invalidated.
package verifier
