package internal

import (
	"io"
	"log/slog"
)

// InitLogging installs a text slog handler writing to w as the default
// logger and returns it. verbose lowers the level to debug.
func InitLogging(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
