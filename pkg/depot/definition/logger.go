// Package definition holds the default implementations of the small
// interfaces the core package depends on, so that core stays agnostic of
// any particular logging backend.
package definition

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jabolina/depot/pkg/depot/types"
)

// DefaultLogger is the structured logger used when the depot is not given
// a caller-supplied one. It writes to standard error through logrus;
// the core package logs plain formatted messages through it, and
// WithFields can derive a logger that annotates its lines with
// structured fields.
type DefaultLogger struct {
	entry *logrus.Entry
	debug bool
}

// NewDefaultLogger builds a DefaultLogger writing to standard error with
// debug output disabled.
func NewDefaultLogger() *DefaultLogger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &DefaultLogger{entry: logrus.NewEntry(base)}
}

// WithFields returns a logger that annotates every subsequent line with
// the given structured fields, without disturbing the debug toggle.
func (l *DefaultLogger) WithFields(fields logrus.Fields) *DefaultLogger {
	return &DefaultLogger{entry: l.entry.WithFields(fields), debug: l.debug}
}

func (l *DefaultLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *DefaultLogger) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.entry.Debugf(format, args...)
	}
}

func (l *DefaultLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *DefaultLogger) ToggleDebug(value bool) bool {
	previous := l.debug
	l.debug = value
	if value {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return previous
}

var _ types.Logger = (*DefaultLogger)(nil)
