// Package logging configures the slog default logger for cclrecipe.
//
// Logs are written to stderr in text form so they interleave readably with
// the output of the external build tools. The level is taken from the
// --log-level flag:
//
//	cclrecipe create --log-level debug
//
// Debug records carry their source location.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a level name to a slog.Level. Unknown names yield info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewLogger creates a logger writing to w with module and version attached
// to every record.
func NewLogger(w io.Writer, module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With("module", module, "version", version)
}

// SetDefaultLogger installs a stderr logger as the slog default.
func SetDefaultLogger(module, version, level string) *slog.Logger {
	logger := NewLogger(os.Stderr, module, version, level)
	slog.SetDefault(logger)
	return logger
}
