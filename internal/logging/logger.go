// Copyright (c) 2025 Lingua
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the structured logger used across lingua and utilities
// for masking credentials before anything reaches a log line or the terminal.
//
// Logging goes through pterm's Logger so diagnostic lines share the look of the
// rest of the CLI output. Tokens are never logged raw: callers pass them through
// Mask or Short first.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// EnvVerbose forces debug logging when set to "1".
const EnvVerbose = "LINGUA_VERBOSE"

// New returns a logger writing to w at the named level
// (trace, debug, info, warn, error, off). Unknown levels mean info.
func New(level string, w io.Writer) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	if os.Getenv(EnvVerbose) == "1" && lvl > pterm.LogLevelDebug {
		lvl = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.
		WithLevel(lvl).
		WithWriter(w).
		WithTime(false)
}

// Discard returns a logger that prints nothing.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled).WithWriter(io.Discard)
}

// ParseLevel maps a level name onto pterm's log levels.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "none", "disabled":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}
