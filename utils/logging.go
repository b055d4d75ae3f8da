package utils

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. "json" is meant for deployed
// environments, anything else falls back to the text handler for local use.
func NewLogger(format string) *slog.Logger {
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})
	}
	return slog.New(handler)
}
