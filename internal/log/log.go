// Package log wraps zap with a context-aware hook mechanism so request
// handlers can stamp every log line with a trace/request ID without
// threading a logger instance through every call.
package log

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Field is a re-export of zap.Field so callers never import zap directly.
type Field = zap.Field

// Hook inspects a context and a message and contributes extra fields to be
// logged alongside it. Hooks run in registration order.
type Hook interface {
	Apply(ctx context.Context, msg string) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, msg string, fields ...Field) []Field

func (f HookFunc) Apply(ctx context.Context, msg string) []Field {
	return f(ctx, msg)
}

// Logger wraps a zap.Logger and applies registered hooks to every call.
type Logger struct {
	base  *zap.Logger
	hooks []Hook
}

func New(base *zap.Logger) *Logger {
	return &Logger{base: base}
}

// NewDevelopment builds a human-readable logger, suitable for local runs of
// the simulator.
func NewDevelopment() *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	return New(base)
}

// NewProduction builds a JSON logger writing to stderr.
func NewProduction() *Logger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}

	return New(base)
}

// AddHook registers a hook whose fields are appended to every subsequent
// logged line.
func (l *Logger) AddHook(h Hook) {
	l.hooks = append(l.hooks, h)
}

func (l *Logger) fields(ctx context.Context, msg string, extra []Field) []Field {
	all := extra

	for _, h := range l.hooks {
		all = append(all, h.Apply(ctx, msg)...)
	}

	return all
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.base.Debug(msg, l.fields(ctx, msg, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.base.Info(msg, l.fields(ctx, msg, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.base.Warn(msg, l.fields(ctx, msg, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.base.Error(msg, l.fields(ctx, msg, fields)...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}

// AsSlog exposes the underlying logger through the standard library's
// slog.Logger, for third-party components (schedulers, HTTP frameworks)
// that accept a slog.Logger instead of our own type.
func (l *Logger) AsSlog() *slog.Logger {
	return slog.New(zapslog.NewHandler(l.base.Core()))
}

var std = NewDevelopment()

// SetDefault replaces the package-level logger used by the free functions
// below (Debug/Info/Warn/Error).
func SetDefault(l *Logger) {
	std = l
}

func Default() *Logger {
	return std
}

func Debug(ctx context.Context, msg string, fields ...Field) { std.Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { std.Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { std.Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { std.Error(ctx, msg, fields...) }

func init() {
	if os.Getenv("LLMSIM_LOG_FORMAT") == "json" {
		std = NewProduction()
	}

	std.AddHook(HookFunc(traceFields))
}
