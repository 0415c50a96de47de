// Package config defines application settings used by the binaries and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the installers tree location, the manifest path and
// install defaults.
package config
