package fuzzygo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fuzzygo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPattern adds a pattern length field to the logger.
func (l *Logger) WithPattern(m int) *Logger {
	return &Logger{
		Logger: l.Logger.With("pattern_len", m),
	}
}

// WithMaxDist adds a max distance field to the logger.
func (l *Logger) WithMaxDist(maxDist int) *Logger {
	return &Logger{
		Logger: l.Logger.With("max_dist", maxDist),
	}
}

// LogScan logs a text scan.
func (l *Logger) LogScan(ctx context.Context, textLen, hits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"text_len", textLen,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scan completed",
			"text_len", textLen,
			"hits", hits,
		)
	}
}

// LogBatchScan logs a batch scan over multiple texts.
func (l *Logger) LogBatchScan(ctx context.Context, texts, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch scan completed with failures",
			"total", texts,
			"failed", failed,
			"success", texts-failed,
		)
	} else {
		l.InfoContext(ctx, "batch scan completed",
			"texts", texts,
		)
	}
}

// LogTraceback logs a traceback walk.
func (l *Logger) LogTraceback(ctx context.Context, endPos, length int, ok bool) {
	if !ok {
		l.WarnContext(ctx, "traceback unavailable",
			"end_pos", endPos,
		)
	} else {
		l.DebugContext(ctx, "traceback completed",
			"end_pos", endPos,
			"length", length,
		)
	}
}

// LogSnapshotSave logs a scan snapshot save.
func (l *Logger) LogSnapshotSave(ctx context.Context, name string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
			"bytes", bytes,
		)
	}
}

// LogSnapshotLoad logs a scan snapshot load.
func (l *Logger) LogSnapshotLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
		)
	}
}
