// Package logsink adapts a *logrus.Logger to dri.Sink, the interface
// every stateful dri type takes at construction for reporting warnings
// and errors without depending on a package-global logger.
package logsink

import (
	"github.com/sirupsen/logrus"

	"github.com/ge-dri/go-dri"
)

// Logrus wraps a *logrus.Logger, with optional fields, as a dri.Sink.
type Logrus struct {
	log *logrus.Entry
}

// New builds a Logrus sink. If log is nil, logrus.StandardLogger() is used.
func New(log *logrus.Logger, fields logrus.Fields) *Logrus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logrus{log: log.WithFields(fields)}
}

func (l *Logrus) Debugf(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l *Logrus) Warnf(format string, args ...interface{})  { l.log.Warnf(format, args...) }
func (l *Logrus) Errorf(format string, args ...interface{}) { l.log.Errorf(format, args...) }

var _ dri.Sink = (*Logrus)(nil)
