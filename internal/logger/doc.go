// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, WarnKV, etc.).
//
// Reactions and services accept a context and extract the logger from it.
// Host programs outside this module route default reactions through their
// own logger with timebombs.WithLogger.
package logger
