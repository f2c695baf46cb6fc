// Package logger holds the shared structured logger. Every line
// emitted through the package helpers carries the service field so QC
// runs can be filtered out of shared log streams.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the underlying logrus instance, exposed for collaborators
// that need the raw logger. Prefer the package helpers, which stamp
// the service field.
var Logger *logrus.Logger

var base *logrus.Entry

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	base = Logger.WithField("service", "textile-qc")
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return base.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return base.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return base.WithError(err)
}

// Info logs an info message
func Info(msg string) {
	base.Info(msg)
}

// Error logs an error message
func Error(msg string) {
	base.Error(msg)
}

// Warn logs a warning message
func Warn(msg string) {
	base.Warn(msg)
}
