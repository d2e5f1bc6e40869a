// Package log provides structured logging for the interpreter. It wraps
// Go's log/slog with a small convenience for per-module child loggers, so
// the CLI and the machine's account store can log with consistent
// context. The interpreter's hot opcode-dispatch path never logs, so this
// wrapper only carries the level and the handful of methods that path's
// two callers (cmd/stackvm's verbose flag, vm's account-creation log)
// actually reach — not the full level set a long-running node needs.
package log

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with interpreter-specific context.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience function.
var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelInfo)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package-level default logger. cmd/stackvm calls
// this once, at startup, to raise the level to Debug under -v.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger with an additional "module" attribute —
// the primary way subsystems (vm, cmd/stackvm) obtain their own
// contextual logger.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Debug logs at LevelDebug using the default logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
