package engine

import (
	"fmt"
	"io"
)

// Logger provides structured logging for the provisioning engine.
// This interface allows callers to plug in their own logging implementation.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
// This is the default logger used when none is provided.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// defaultLogger returns the default no-op logger.
func defaultLogger() Logger {
	return &noopLogger{}
}

// WriterLogger is a Logger that writes level-prefixed lines to an io.Writer.
// The CLI uses it against stderr; debug lines are emitted only when verbose.
type WriterLogger struct {
	W       io.Writer
	Verbose bool
}

func (l *WriterLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.Verbose {
		l.write("DEBUG", msg, keysAndValues)
	}
}

func (l *WriterLogger) Info(msg string, keysAndValues ...interface{}) {
	l.write("INFO", msg, keysAndValues)
}

func (l *WriterLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.write("WARN", msg, keysAndValues)
}

func (l *WriterLogger) Error(msg string, keysAndValues ...interface{}) {
	l.write("ERROR", msg, keysAndValues)
}

func (l *WriterLogger) write(level, msg string, kv []interface{}) {
	fmt.Fprintf(l.W, "[%s] %s", level, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(l.W, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(l.W)
}
