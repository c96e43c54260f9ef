package fsenv

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fsenv-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger

	closer io.Closer
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
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

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewWritableFileLogger creates a Logger appending structured text to
// wf. Closing the Logger closes wf.
func NewWritableFileLogger(wf WritableFile) *Logger {
	return newFileLogger(&appendWriter{wf: wf})
}

// appendWriter adapts a WritableFile to io.Writer for slog handlers.
type appendWriter struct {
	wf WritableFile
}

func (w *appendWriter) Write(p []byte) (int, error) {
	if err := w.wf.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *appendWriter) Close() error { return w.wf.Close() }

// newFileLogger creates a Logger writing structured text to w. Closing
// the Logger closes w.
func newFileLogger(w io.WriteCloser) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		Logger: slog.New(handler),
		closer: w,
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
		closer: l.closer,
	}
}

// WithOp adds an operation field to the logger.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op),
		closer: l.closer,
	}
}

// Close releases the log destination, if the Logger owns one.
// Close is idempotent.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	c := l.closer
	l.closer = nil
	return c.Close()
}
