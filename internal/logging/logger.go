// Package logging builds the structured loggers used across the service.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"messageapi/internal/config"
)

// New creates a slog Logger from the logging configuration. The returned
// cleanup closes the output file when one was opened.
func New(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	out, cleanup, err := openOutput(cfg.OutputPath)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(NewHandler(out, cfg))
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// NewHandler selects a JSON or text handler writing to w.
func NewHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a configured level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openOutput(path string) (io.Writer, func(), error) {
	switch path {
	case "", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
