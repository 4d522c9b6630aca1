// Package config defines the settings of a timebombs check and loads them
// from flags, TIMEBOMBS_* environment variables and an optional YAML file,
// in that order of precedence.
package config
