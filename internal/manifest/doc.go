// Package manifest declares timebombs in YAML or TOML files so the CLI can
// check a registry without being linked into the host program.
package manifest
