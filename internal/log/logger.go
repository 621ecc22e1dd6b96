// Package log wraps slog with component tagging and the field-name
// vocabulary shared across the binaries.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger that stamps every entry with its component.
type Logger struct {
	*slog.Logger
}

// New creates a text-handler logger at the given level, tagged with the
// component name, and does not touch the process default.
func New(component string, level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler).With(FieldComponent, component)}
}

// WithComponent returns a child logger for a sub-component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(FieldComponent, component)}
}

// Setup installs a default logger for the whole process and returns it.
// The binaries call this once at startup.
func Setup(component string) *Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := New(component, level)
	slog.SetDefault(logger.Logger)
	return logger
}
