// Package logging builds the process logger. Loggers are plain zerolog
// values handed down through constructors; there is no global state.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to stderr at the given level.
func New(level string) zerolog.Logger {
	return NewWriter(level, os.Stderr)
}

// NewWriter returns a console logger writing to w at the given level.
// Unknown level names fall back to info.
func NewWriter(level string, w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Named returns a child logger tagged with a component field.
func Named(log zerolog.Logger, component string) zerolog.Logger {
	if component == "" {
		return log
	}
	return log.With().Str("component", component).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
