package memaccess

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with memaccess-specific context.
// This provides structured logging with consistent field names.
//
// Only construction and release events are logged; element accesses never are.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogRegion logs the construction of a single-region view.
func (l *Logger) LogRegion(kind string, size int64, checker BoundsChecker, order ByteOrderConvertor, err error) {
	if err != nil {
		l.Error("region construction failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.Debug("region constructed",
			"kind", kind,
			"size", size,
			"checker", checker.String(),
			"order", order.String(),
		)
	}
}

// LogSegmented logs the construction of a segmented view.
func (l *Logger) LogSegmented(segments int, segmentSize, size int64, err error) {
	if err != nil {
		l.Error("segmented construction failed",
			"segments", segments,
			"error", err,
		)
	} else {
		l.Debug("segmented constructed",
			"segments", segments,
			"segment_size", segmentSize,
			"size", size,
		)
	}
}

// LogRelease logs the release of an off-heap reference.
func (l *Logger) LogRelease(size int64, err error) {
	if err != nil {
		l.Warn("release failed",
			"size", size,
			"error", err,
		)
	} else {
		l.Debug("released",
			"size", size,
		)
	}
}
