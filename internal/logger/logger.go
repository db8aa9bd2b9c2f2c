// Package logger provides a centralized leveled logging facility for the
// command line and HTTP layers.
//
// The pricing packages never log; everything here is for the outer surfaces.
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("serving on %s", addr)
//	logger.WithFields(logrus.Fields{"spot": spot}).Debug("evaluated")
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	// logs go to stderr so they never mix with rendered reports on stdout
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(Info.toLogrus())
	return l
}

func (l Level) toLogrus() logrus.Level {
	switch {
	case l <= Error:
		return logrus.ErrorLevel
	case l == Info:
		return logrus.InfoLevel
	case l == Debug:
		return logrus.DebugLevel
	}
	return logrus.TraceLevel
}

// SetVerbosity sets the global logging verbosity, 0 (errors) to 3 (trace).
// Values outside that range are clamped.
func SetVerbosity(v int) {
	std.SetLevel(Level(v).toLogrus())
}

// Verbosity reports the active verbosity level.
func Verbosity() Level {
	switch std.GetLevel() {
	case logrus.InfoLevel:
		return Info
	case logrus.DebugLevel:
		return Debug
	case logrus.TraceLevel:
		return Trace
	}
	return Error
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetJSON switches to JSON-formatted records.
func SetJSON(on bool) {
	if on {
		std.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return std.WithFields(fields)
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	std.Errorf(format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	std.Infof(format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	std.Debugf(format, args...)
}

// Tracef logs very detailed execution traces.
func Tracef(format string, args ...any) {
	std.Tracef(format, args...)
}
