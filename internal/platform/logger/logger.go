// Package logger builds the process slog.Logger.
package logger

import (
	"log/slog"
	"os"

	"anonmsg/internal/platform/config"
)

// New returns a text logger at debug level for local runs and a JSON logger
// at info level everywhere else.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// Err is the attribute used for errors across the codebase.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
