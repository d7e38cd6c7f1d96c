package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	joonix "github.com/joonix/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

func resetLogger(t *testing.T) {
	level := logrus.GetLevel()
	formatter := logrus.StandardLogger().Formatter
	hooks := logrus.StandardLogger().Hooks
	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() {
		logrus.SetLevel(level)
		logrus.SetFormatter(formatter)
		logrus.StandardLogger().ReplaceHooks(hooks)
	})
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("text", true)
	require.NoError(t, err)
	text, ok := f.(*prefixed.TextFormatter)
	require.True(t, ok)
	assert.True(t, text.DisableColors)
	assert.True(t, text.FullTimestamp)

	f, err = NewFormatter("fluentd", false)
	require.NoError(t, err)
	assert.IsType(t, &joonix.Formatter{}, f)

	f, err = NewFormatter("json", false)
	require.NoError(t, err)
	assert.IsType(t, &logrus.JSONFormatter{}, f)

	_, err = NewFormatter("xml", false)
	assert.ErrorContains(t, err, "unknown log format xml")
}

func TestConfigure(t *testing.T) {
	resetLogger(t)

	require.NoError(t, Configure("json", "debug", ""))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	assert.ErrorContains(t, Configure("json", "loud", ""), "could not parse verbosity")
	assert.ErrorContains(t, Configure("yaml", "info", ""), "unknown log format")
}

func TestConfigure_PersistentFile(t *testing.T) {
	resetLogger(t)
	logFile := filepath.Join(t.TempDir(), "node.log")

	require.NoError(t, Configure("json", "info", logFile))
	logrus.WithField("prefix", "test").Info("persisted line")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "persisted line")
	assert.Contains(t, string(content), "File logger initialized")
}

func TestWriterHook(t *testing.T) {
	var buf bytes.Buffer
	hook := &WriterHook{
		LogLevels: []logrus.Level{logrus.WarnLevel},
		Formatter: &logrus.JSONFormatter{},
		Writer:    &buf,
	}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.AddHook(hook)

	logger.Info("skipped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}
