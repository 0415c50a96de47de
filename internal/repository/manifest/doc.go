// Package manifest implements persistence for the games manifest.
//
// The FileRepository stores and loads the manifest as YAML and exposes a
// Repository interface that the services depend on. File access goes through
// afero so tests can run against an in-memory filesystem.
package manifest
