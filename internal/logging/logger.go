// Package logging defines the structured, context-aware logger used across
// the service and its log/slog backed implementation.
package logging

import (
	"context"
	"log/slog"
)

// Logger takes key-value pairs after the message, e.g.
//
//	log.Info(ctx, "cover generated", "model", model, "output", name)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// New returns a JSON logger on stdout for production and a text logger
// otherwise. level overrides the default of info in production and debug
// elsewhere; an unparseable level keeps the default.
func New(environment, level string) *SlogLogger {
	opts := Options{JSON: environment == "production", Level: slog.LevelDebug}
	if opts.JSON {
		opts.Level = slog.LevelInfo
	}
	if level != "" {
		if parsed, err := ParseLevel(level); err == nil {
			opts.Level = parsed
		}
	}
	return NewWithOptions(opts)
}

// Discard drops everything; used by tests and optional dependencies.
func Discard() *SlogLogger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}
