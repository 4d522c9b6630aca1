package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/oshokin/timebombs/internal/logger"
	"github.com/oshokin/timebombs/internal/service/checker"
)

// Config holds the evaluation settings shared by the check and list commands.
type Config struct {
	// SkipDisarmed excludes disarmed markers from counts and thresholds.
	SkipDisarmed bool `yaml:"skip-disarmed"`
	// SkipArmed excludes armed markers from counts and thresholds.
	SkipArmed bool `yaml:"skip-armed"`
	// SkipExploded excludes exploded markers from counts and thresholds.
	SkipExploded bool `yaml:"skip-exploded"`
	// MaxDisarmed is the largest tolerated number of disarmed markers.
	MaxDisarmed int `yaml:"max-disarmed"`
	// MaxArmed is the largest tolerated number of armed markers.
	MaxArmed int `yaml:"max-armed"`
	// MaxExploded is the largest tolerated number of exploded markers.
	MaxExploded int `yaml:"max-exploded"`
	// Lookahead shifts the evaluation instant forward by calendar days.
	Lookahead int `yaml:"lookahead"`
	// Timezone is an IANA name the evaluation instant is converted into.
	Timezone string `yaml:"timezone,omitempty"`
	// At is an explicit evaluation moment; empty means now.
	At string `yaml:"at,omitempty"`
	// Policy selects how counts turn into an exit status.
	Policy string `yaml:"policy"`
	// LogLevel is the minimum level of log output.
	LogLevel string `yaml:"log-level"`
}

// Setting keys, shared by flags, environment and the config file.
const (
	KeySkipDisarmed = "skip-disarmed"
	KeySkipArmed    = "skip-armed"
	KeySkipExploded = "skip-exploded"
	KeyMaxDisarmed  = "max-disarmed"
	KeyMaxArmed     = "max-armed"
	KeyMaxExploded  = "max-exploded"
	KeyLookahead    = "lookahead"
	KeyTimezone     = "timezone"
	KeyAt           = "at"
	KeyPolicy       = "policy"
	KeyLogLevel     = "log-level"
)

const (
	// DefaultConfigFilename is read from the working directory when no path is given.
	DefaultConfigFilename = ".timebombs.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TIMEBOMBS_MAX_ARMED.
	EnvPrefix = "TIMEBOMBS"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeMaximum is returned for a negative threshold.
	errNegativeMaximum = errors.New("maximum must not be negative")
	// errNegativeLookahead is returned for a negative lookahead.
	errNegativeLookahead = errors.New("lookahead must not be negative")
	// errUnknownLogLevel is returned for an unparsable log level.
	errUnknownLogLevel = errors.New("unknown log level")
)

// RegisterFlags declares every setting on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP(KeySkipDisarmed, "d", false, "skip disarmed timebombs")
	fs.BoolP(KeySkipArmed, "a", false, "skip armed timebombs")
	fs.BoolP(KeySkipExploded, "e", false, "skip exploded timebombs")
	fs.IntP(KeyMaxDisarmed, "D", 0, "maximum allowed number of disarmed timebombs")
	fs.IntP(KeyMaxArmed, "A", 0, "maximum allowed number of armed timebombs")
	fs.IntP(KeyMaxExploded, "E", 0, "maximum allowed number of exploded timebombs")
	fs.IntP(KeyLookahead, "l", 0, "days added to the evaluation instant")
	fs.StringP(KeyTimezone, "z", "", "IANA timezone (e.g. Europe/Amsterdam) used to evaluate timebombs")
	fs.StringP(KeyAt, "t", "", `moment to evaluate at, ISO-8601 or e.g. "next monday" (default now)`)
	fs.String(KeyPolicy, string(checker.PolicyThreshold), "exit status policy: threshold or total")
	fs.String(KeyLogLevel, DefaultLogLevel, "log level: debug, info, warn or error")
}

// Load merges flags, environment and the config file at path into a validated Config.
// An empty path reads DefaultConfigFilename when it exists.
func Load(fs *pflag.FlagSet, path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPolicy, string(checker.PolicyThreshold))
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path == "" {
		if _, err := os.Stat(DefaultConfigFilename); err == nil {
			path = DefaultConfigFilename
		}
	}

	if path != "" {
		v.SetConfigFile(filepath.Clean(path))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	cfg := &Config{
		SkipDisarmed: v.GetBool(KeySkipDisarmed),
		SkipArmed:    v.GetBool(KeySkipArmed),
		SkipExploded: v.GetBool(KeySkipExploded),
		MaxDisarmed:  v.GetInt(KeyMaxDisarmed),
		MaxArmed:     v.GetInt(KeyMaxArmed),
		MaxExploded:  v.GetInt(KeyMaxExploded),
		Lookahead:    v.GetInt(KeyLookahead),
		Timezone:     v.GetString(KeyTimezone),
		At:           v.GetString(KeyAt),
		Policy:       v.GetString(KeyPolicy),
		LogLevel:     v.GetString(KeyLogLevel),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and names, filling defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	for key, value := range map[string]int{
		KeyMaxDisarmed: cfg.MaxDisarmed,
		KeyMaxArmed:    cfg.MaxArmed,
		KeyMaxExploded: cfg.MaxExploded,
	} {
		if value < 0 {
			return fmt.Errorf("%s=%d: %w", key, value, errNegativeMaximum)
		}
	}

	if cfg.Lookahead < 0 {
		return fmt.Errorf("%s=%d: %w", KeyLookahead, cfg.Lookahead, errNegativeLookahead)
	}

	if _, err := cfg.Location(); err != nil {
		return err
	}

	if cfg.Policy == "" {
		cfg.Policy = string(checker.PolicyThreshold)
	}

	if _, err := checker.ParsePolicy(cfg.Policy); err != nil {
		return err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return nil
}

// Location resolves Timezone; nil means the process-local time is used as is.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil //nolint:nilnil // No timezone means no conversion.
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// Thresholds returns the configured maximums.
func (c *Config) Thresholds() checker.Thresholds {
	return checker.Thresholds{
		Disarmed: c.MaxDisarmed,
		Armed:    c.MaxArmed,
		Exploded: c.MaxExploded,
	}
}

// Skips returns the configured skip flags.
func (c *Config) Skips() checker.Skips {
	return checker.Skips{
		Disarmed: c.SkipDisarmed,
		Armed:    c.SkipArmed,
		Exploded: c.SkipExploded,
	}
}
