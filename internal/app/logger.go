package app

import (
	"log/slog"
	"os"
	"strings"

	"courierflow/internal/logx"
)

// NewLogger builds the process-wide JSON logger. LOG_LEVEL selects the
// minimum level and defaults to info.
func NewLogger() logx.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	return logx.NewSlogAdapter(base)
}
