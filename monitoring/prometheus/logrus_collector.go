package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	prefixKey     = "prefix"
	defaultPrefix = "global"
)

var (
	defaultLevels = []logrus.Level{logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel}
	logEntries    = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "log_entries_total",
		Help: "Total number of log messages.",
	}, []string{"level", "prefix"})
)

// LogrusCollector is a logrus hook counting log entries per level and package prefix.
type LogrusCollector struct {
	levels []logrus.Level
}

// NewLogrusCollector returns a hook counting the given levels, info, warn and
// error when none are given. Every collector shares the same counter.
func NewLogrusCollector(levels ...logrus.Level) *LogrusCollector {
	if len(levels) == 0 {
		levels = defaultLevels
	}
	return &LogrusCollector{levels: levels}
}

// Fire is called on every log call.
func (*LogrusCollector) Fire(entry *logrus.Entry) error {
	prefix := defaultPrefix
	if v, ok := entry.Data[prefixKey]; ok {
		prefix = fmt.Sprint(v)
	}
	logEntries.WithLabelValues(entry.Level.String(), prefix).Inc()
	return nil
}

// Levels return a slice of levels supported by this hook.
func (hook *LogrusCollector) Levels() []logrus.Level {
	return hook.levels
}
