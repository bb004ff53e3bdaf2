// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup("info")                    // level name from config
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level
//
// Level names: debug, info, warn, error (unknown names fall back to info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging on stderr at the named level.
func Setup(level string) {
	SetupWithLevel(ParseLevel(level))
}

// SetupWithLevel configures colored logging on stderr at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level))
}

// New builds a tint logger writing to w. Debug level adds source locations.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level <= slog.LevelDebug,
		}),
	)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
