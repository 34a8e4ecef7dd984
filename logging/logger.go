package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger instances provide custom logging.
type Logger interface {

	// Log with level ERROR
	Error(...interface{})

	// Log formatted messages with level ERROR
	Errorf(string, ...interface{})

	// Log with level WARN
	Warn(...interface{})

	// Log formatted messages with level WARN
	Warnf(string, ...interface{})

	// Log with level INFO
	Info(...interface{})

	// Log formatted messages with level INFO
	Infof(string, ...interface{})

	// Log with level DEBUG
	Debug(...interface{})

	// Log formatted messages with level DEBUG
	Debugf(string, ...interface{})
}

// DefaultLog provides a default implementation of the Logger interface,
// with a dedicated logrus logger.
type DefaultLog struct {
	*logrus.Logger
}

// NewDefaultLog creates a logger with a new logrus logger.
func NewDefaultLog() *DefaultLog {
	return &DefaultLog{Logger: logrus.New()}
}

// Standard returns a Logger writing to the application log.
func Standard() Logger {
	return &DefaultLog{Logger: logrus.StandardLogger()}
}
