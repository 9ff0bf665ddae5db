package common

import (
	"io"
	"log/slog"
)

// NewLogger returns the JSON logger every command writes to stderr.
// quiet wins over verbose.
func NewLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
