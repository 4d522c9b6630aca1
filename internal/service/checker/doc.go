// Package checker evaluates a registry of timebombs at one instant and turns
// the per-state counts into a process exit status for CI pipelines.
package checker
