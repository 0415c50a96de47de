// Package scanner regenerates the games manifest from the installers tree.
//
// Each child folder becomes one game entry (and, when it contains a server
// subdirectory, a companion server entry): every file is hashed with SHA-256,
// the primary installer is fingerprinted with CRC-32 and its embedded product
// version is read best-effort. Manually configured fields (capability flags
// and prerequisites) are preserved across regenerations.
package scanner
