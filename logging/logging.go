package logging

import (
	"log/slog"
	"os"
)

// New returns a text slog logger at info level. Text reads better during
// development; production deployments usually want NewJSON.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// NewJSON returns a JSON slog logger at the given level.
func NewJSON(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
