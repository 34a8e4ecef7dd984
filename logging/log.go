package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type prefixFormatter struct {
	prefix    string
	formatter logrus.Formatter
}

// Options for Init.
type Options struct {

	// Prefix for application log entries. Primarily used to be
	// able to select between access log and application log
	// entries.
	ApplicationLogPrefix string

	// Output for the application log entries, when nil,
	// os.Stderr is used.
	ApplicationLogOutput io.Writer

	// Minimum level of the application log entries. When not set,
	// logrus.InfoLevel is used.
	ApplicationLogLevel logrus.Level

	// When set, the application log entries are printed as JSON
	// objects.
	ApplicationLogJSONEnabled bool

	// Output for the access log entries, when nil, os.Stderr is
	// used.
	AccessLogOutput io.Writer

	// When set, no access log is printed.
	AccessLogDisabled bool

	// When set, the access log entries are printed as JSON
	// objects.
	AccessLogJSONEnabled bool
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.formatter.Format(e)
	if err != nil {
		return nil, err
	}

	return append([]byte(f.prefix), b...), nil
}

func initApplicationLog(o Options) {
	var formatter logrus.Formatter = &logrus.TextFormatter{}
	if o.ApplicationLogJSONEnabled {
		formatter = &logrus.JSONFormatter{}
	}

	if o.ApplicationLogPrefix != "" {
		formatter = &prefixFormatter{o.ApplicationLogPrefix, formatter}
	}

	logrus.SetFormatter(formatter)

	if o.ApplicationLogOutput != nil {
		logrus.SetOutput(o.ApplicationLogOutput)
	}

	// the zero value of logrus.Level is PanicLevel, it is treated as not set
	if o.ApplicationLogLevel != logrus.PanicLevel {
		logrus.SetLevel(o.ApplicationLogLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func initAccessLog(output io.Writer, jsonEnabled bool) {
	l := logrus.New()
	if jsonEnabled {
		l.Formatter = &logrus.JSONFormatter{TimestampFormat: dateFormat, DisableTimestamp: true}
	} else {
		l.Formatter = &accessLogFormatter{accessLogFormat}
	}

	l.Out = output
	l.Level = logrus.InfoLevel
	accessLog.Store(l)
}

// Init initializes the application log and the access log.
func Init(o Options) {
	initApplicationLog(o)

	if o.AccessLogDisabled {
		accessLog.Store(nil)
		return
	}

	if o.AccessLogOutput == nil {
		o.AccessLogOutput = os.Stderr
	}

	initAccessLog(o.AccessLogOutput, o.AccessLogJSONEnabled)
}
