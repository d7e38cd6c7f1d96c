package prometheus

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogrusCollector(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(NewLogrusCollector())

	tests := []struct {
		name   string
		count  int
		prefix string
		level  logrus.Level
	}{
		{"info message with empty prefix", 3, "", logrus.InfoLevel},
		{"warn message with empty prefix", 2, "", logrus.WarnLevel},
		{"error message with prefix", 1, "blockchain", logrus.ErrorLevel},
		{"info message with prefix", 3, "execution", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := tt.prefix
			if label == "" {
				label = defaultPrefix
			}
			before := testutil.ToFloat64(logEntries.WithLabelValues(tt.level.String(), label))
			for i := 0; i < tt.count; i++ {
				entry := logrus.NewEntry(logger)
				if tt.prefix != "" {
					entry = entry.WithField("prefix", tt.prefix)
				}
				entry.Log(tt.level, "message")
			}
			after := testutil.ToFloat64(logEntries.WithLabelValues(tt.level.String(), label))
			assert.Equal(t, float64(tt.count), after-before)
		})
	}
}

func TestLogrusCollector_Levels(t *testing.T) {
	assert.Equal(t, defaultLevels, NewLogrusCollector().Levels())
	assert.Equal(t, []logrus.Level{logrus.DebugLevel}, NewLogrusCollector(logrus.DebugLevel).Levels())

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(NewLogrusCollector())
	before := testutil.ToFloat64(logEntries.WithLabelValues("debug", "quiet"))
	logger.WithField("prefix", "quiet").Debug("not counted")
	assert.Equal(t, before, testutil.ToFloat64(logEntries.WithLabelValues("debug", "quiet")))
}
