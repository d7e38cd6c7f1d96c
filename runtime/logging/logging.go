// Package logging configures the process wide logrus logger: output format,
// verbosity and an optional persistent log file.
package logging

import (
	"io"
	"os"
	"sync"

	joonix "github.com/joonix/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const timestampFormat = "2006-01-02 15:04:05"

var _ = logrus.Hook(&WriterHook{})

// WriterHook copies every entry of the given levels to Writer, formatted
// with its own Formatter.
type WriterHook struct {
	LogLevels []logrus.Level
	Formatter logrus.Formatter
	Writer    io.Writer

	lock sync.Mutex
}

// Fire will be called when some logging function is called with current hook.
func (hook *WriterHook) Fire(entry *logrus.Entry) error {
	line, err := hook.Formatter.Format(entry)
	if err != nil {
		return err
	}
	hook.lock.Lock()
	defer hook.lock.Unlock()
	_, err = hook.Writer.Write(line)
	return err
}

// Levels defines on which log levels this hook would trigger.
func (hook *WriterHook) Levels() []logrus.Level {
	return hook.LogLevels
}

// NewFormatter returns the formatter for one of "text", "fluentd" or "json".
func NewFormatter(format string, disableColors bool) (logrus.Formatter, error) {
	switch format {
	case "text":
		formatter := new(prefixed.TextFormatter)
		formatter.TimestampFormat = timestampFormat
		formatter.FullTimestamp = true
		// ANSI colors are unreadable in log files.
		formatter.DisableColors = disableColors
		return formatter, nil
	case "fluentd":
		return joonix.NewFormatter(), nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, errors.Errorf("unknown log format %s", format)
	}
}

// Configure sets the global log level and formatter. A non empty logFile
// additionally appends every entry to that file.
func Configure(format, verbosity, logFile string) error {
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return errors.Wrap(err, "could not parse verbosity")
	}
	logrus.SetLevel(level)

	formatter, err := NewFormatter(format, logFile != "")
	if err != nil {
		return err
	}
	logrus.SetFormatter(formatter)

	if logFile == "" {
		return nil
	}
	return ConfigurePersistentLogging(logFile, format)
}

// ConfigurePersistentLogging adds a log-to-file writer hook to the logrus logger. The writer hook appends new
// logs to the specified log file.
func ConfigurePersistentLogging(logFileName, format string) error {
	logrus.WithField("logFileName", logFileName).Info("Logs will be made persistent")
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.Wrap(err, "could not open log file")
	}
	formatter, err := NewFormatter(format, true)
	if err != nil {
		return err
	}
	logrus.AddHook(&WriterHook{
		LogLevels: logrus.AllLevels,
		Formatter: formatter,
		Writer:    f,
	})
	logrus.Info("File logger initialized")
	return nil
}
