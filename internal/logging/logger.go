// Package logging provides structured logging configuration using log/slog.
//
// Import runs attach a run ID, the input format, and the file name to every
// entry so that a single invocation can be followed through the log output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format when logs are shipped somewhere for machine parsing.
// Use "text" format for interactive runs.
func Setup(level, format string) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EffectiveLevel returns "debug" when verbose is set, otherwise level unchanged.
// The --verbose flag always wins over LOG_LEVEL.
func EffectiveLevel(level string, verbose bool) string {
	if verbose {
		return "debug"
	}
	return level
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	runLogger := logging.WithFields(
//	    "run_id", runID,
//	    "format", "transmissions",
//	)
//	runLogger.Info("import started")
func WithFields(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}
