package logger

import (
	"log/slog"
	"os"
)

// Logger is the logging interface used across the service. *slog.Logger
// satisfies it.
type Logger interface {
	Info(msg string, keyvals ...interface{})

	Warn(msg string, keyvals ...interface{})

	Error(msg string, keyvals ...interface{})

	Debug(msg string, keyvals ...interface{})
}

func New() Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true, // include file + line number
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
