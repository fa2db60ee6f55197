// ABOUTME: Logger implementation backed by logrus with structured fields
// ABOUTME: Supports configurable level and JSON output for production deployments

package logrus

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger implements the Logger interface using logrus.
type Logger struct {
	entry *logrus.Logger
}

// Options configures the logrus logger.
type Options struct {
	// Level is the minimum level to emit: debug, info, warn or error.
	// Defaults to info.
	Level string

	// JSONFormat switches output to JSON lines instead of text.
	JSONFormat bool

	// Output overrides the destination, mainly for tests. Defaults to stdout.
	Output io.Writer
}

// NewLogger creates a logrus-backed logger.
func NewLogger(opts Options) *Logger {
	l := logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	l.SetOutput(output)

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.JSONFormat {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	return &Logger{entry: l}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}
