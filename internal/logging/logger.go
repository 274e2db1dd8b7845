// Package logging provides a logging abstraction layer that decouples the
// application from the underlying logging framework.
package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger

	// Fatal logs a fatal-level message and exits the program
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewLogrusAdapter("info", "text")
)

// GetLogger returns the process-wide default logger. Packages capture it in
// a package-level var and expose SetLogger for injection.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide default logger.
func SetDefaultLogger(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// SetAllLogLevels forces the given level on the default logger and on any
// logrus loggers created afterwards.
func SetAllLogLevels(level logrus.Level) {
	logrus.SetLevel(level)
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if a, ok := defaultLogger.(*LogrusAdapter); ok {
		a.logger.SetLevel(level)
	}
}
