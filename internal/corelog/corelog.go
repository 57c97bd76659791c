// Package corelog is the pipeline's internal operational logger: phase
// start/finish lines, driver fan-out notices, aborted-build warnings —
// never user-facing diagnostics, which stay internal/diag's job (spec §7).
// Kept to a thin wrapper over log/slog rather than a pulled-in structured-
// logging library, since the teacher carries none (its internal/observ is
// a duration timer, not a logger; see DESIGN.md).
package corelog

import (
	"context"
	"log/slog"
	"os"
)

// Level mirrors slog's levels under names that read naturally at a call
// site (corelog.Debug, corelog.Info, ...).
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is the package's only exported type: a named slog.Logger plus the
// handful of methods the pipeline actually calls. Embedding *slog.Logger
// directly would expose slog's full surface (With, WithGroup, Handler...)
// where this package only wants a small, stable vocabulary.
type Logger struct {
	inner *slog.Logger
}

var std = New(os.Stderr, LevelInfo)

// New builds a Logger writing leveled, key=value text lines to w.
func New(w *os.File, level Level) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(handler)}
}

// SetDefault replaces the package-level logger used by the free functions
// below (Debug/Info/Warn/Error), matching slog's own SetDefault pattern —
// the driver's CLI entrypoint calls this once, honoring a --verbose flag.
func SetDefault(l *Logger) { std = l }

// With returns a Logger that attaches args to every subsequent record, for
// scoping e.g. a function's ident across an entire BuildFunction call.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	l.inner.Log(context.Background(), level, msg, args...)
}

func Debug(msg string, args ...any) { std.Debug(msg, args...) }
func Info(msg string, args ...any)  { std.Info(msg, args...) }
func Warn(msg string, args ...any)  { std.Warn(msg, args...) }
func Error(msg string, args ...any) { std.Error(msg, args...) }
