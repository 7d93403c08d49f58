package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Options configures a slog backed Logger. A nil Out writes to stdout.
type Options struct {
	JSON  bool
	Level slog.Level
	Out   io.Writer
}

// SlogLogger implements Logger on top of log/slog. Loggers built with
// NewWithOptions share a level that SetLevel can change at runtime.
type SlogLogger struct {
	l     *slog.Logger
	level *slog.LevelVar
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func NewWithOptions(opts Options) *SlogLogger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	level := new(slog.LevelVar)
	level.Set(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, handlerOpts)
	} else {
		h = slog.NewTextHandler(out, handlerOpts)
	}
	return &SlogLogger{l: slog.New(h), level: level}
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// SetLevel is a no-op for loggers wrapping a caller-supplied *slog.Logger.
func (s *SlogLogger) SetLevel(level slog.Level) {
	if s.level != nil {
		s.level.Set(level)
	}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...), level: s.level}
}
