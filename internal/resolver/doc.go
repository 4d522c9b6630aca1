// Package resolver maps the CLI's textual registry reference to a registry:
// a name published with timebombs.Publish, or a manifest file path.
package resolver
