// Package logging configures slog for the application and hands out the
// category loggers used by the table and the input layer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Category attribute values.
const (
	CategoryPatience = "patience"
	CategoryMouse    = "mouse"
)

// Patience returns the logger for game and layout events.
func Patience() *slog.Logger {
	return slog.Default().With("category", CategoryPatience)
}

// Mouse returns the logger for pointer events. Mouse logging is chatty and
// only emitted at debug level.
func Mouse() *slog.Logger {
	return slog.Default().With("category", CategoryMouse)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup installs a text handler writing to w as the default logger and
// returns it.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
