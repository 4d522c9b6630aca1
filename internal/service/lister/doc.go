// Package lister prints every timebomb of a registry with its state at the
// evaluation instant, most urgent deadline first.
package lister
