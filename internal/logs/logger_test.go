package logs

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("nonsense"))
}

func TestInitWithFile(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "app")
	require.NoError(t, Init(Options{Level: "error", Format: "json", File: prefix}))

	assert.Equal(t, logrus.ErrorLevel, Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Logger.Formatter)

	matches, err := filepath.Glob(prefix + "_*.log")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestInitBadFile(t *testing.T) {
	err := Init(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "app")})
	assert.Error(t, err)
}

func TestEnableDebug(t *testing.T) {
	require.NoError(t, Init(Options{Level: "info"}))
	EnableDebug()
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())

	require.NoError(t, Init(Options{Level: "trace"}))
	EnableDebug()
	assert.Equal(t, logrus.TraceLevel, Logger.GetLevel())
}
