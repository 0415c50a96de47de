// Package installer implements the install orchestrator: it drives one
// external installer process per selected manifest entry, prerequisites first,
// substituting caller-supplied parameters into the invocation.
//
// The batch is sequential and non-transactional. Each entry walks
// prerequisites, then the primary installer, and ends installed or failed;
// a failed entry is reported in the outcome list and the batch moves on.
// Process invocations are built as explicit argument lists, never shell
// strings, so paths containing spaces reach the installer as single tokens.
package installer
