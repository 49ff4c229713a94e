package logger

import (
	"io"
	"log/slog"
)

// NewNope creates a logger that discards all output.
// Use it as a default when logging is not configured and in tests.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewWriter creates a JSON logger writing every level to w.
// Intended for tests that assert on log output.
func NewWriter(w io.Writer) *slog.Logger {
	return slog.New(newHandler(w, "json", slog.LevelDebug))
}
