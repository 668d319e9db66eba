// Package logger configures the process-wide slog logger. Components obtain
// child loggers via ForComponent so log lines carry their origin.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config controls handler selection for the default logger.
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns the settings used when nothing is configured:
// info-level text logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: false,
	}
}

// Init installs the default slog logger according to cfg.
func Init(cfg Config) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }
func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }

// ForComponent returns a logger tagged with the given component name.
func ForComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}
