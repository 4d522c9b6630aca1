// Package version exposes build metadata for the timebombs CLI.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
package version
