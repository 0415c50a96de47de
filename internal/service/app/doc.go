// Package app implements the command workflows behind the Cobra LANs
// binaries: verifying the installers tree against the manifest, driving
// install batches and regenerating the manifest from disk. Each workflow is a
// Run function taking an Options struct, so the cobra layer stays a thin shell.
package app
