package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the JSON logger used by every command.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
