package bootstrap

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout создаёт <tmp>/main и <tmp>/server, возвращает путь к "скрипту".
func layout(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmp, AppDir), 0o755))
	return filepath.Join(tmp, "main")
}

func TestMainRunsOnceWithFixedArgs(t *testing.T) {
	script := layout(t)
	rec := &recorder{}

	err := Main(script, nil, moduleFor(rec, nil))

	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, runCall{Host: "0.0.0.0", Port: 5000, Debug: true}, rec.calls[0])
}

func TestLoadDoesNotRun(t *testing.T) {
	script := layout(t)
	rec := &recorder{}
	var seen string

	b := New(script, SearchPath{"/nonexistent"}, moduleFor(rec, &seen))
	app, err := b.Load()

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Empty(t, rec.calls)
	assert.Equal(t, NotRunning, b.State())
	assert.Equal(t, filepath.Join(filepath.Dir(script), AppDir), seen)

	sp := b.SearchPath()
	require.Len(t, sp, 2)
	assert.Equal(t, seen, sp[0])
}

func TestStartOnlyOnce(t *testing.T) {
	script := layout(t)
	rec := &recorder{}
	b := New(script, nil, moduleFor(rec, nil))

	app, err := b.Load()
	require.NoError(t, err)

	require.NoError(t, b.Start(app))
	assert.Equal(t, Running, b.State())

	err = b.Start(app)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Len(t, rec.calls, 1)
	assert.Equal(t, Running, b.State())
}

func TestMainPropagatesRunError(t *testing.T) {
	script := layout(t)
	bindErr := errors.New("listen tcp 0.0.0.0:5000: bind: address already in use")
	rec := &recorder{err: bindErr}

	err := Main(script, nil, moduleFor(rec, nil))

	assert.ErrorIs(t, err, bindErr)
	assert.Len(t, rec.calls, 1)
}

func TestMainMissingPackageNeverRuns(t *testing.T) {
	script := filepath.Join(t.TempDir(), "main")
	rec := &recorder{}

	err := Main(script, nil, moduleFor(rec, nil))

	assert.ErrorIs(t, err, ErrModuleNotFound)
	assert.Empty(t, rec.calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NOT_RUNNING", NotRunning.String())
	assert.Equal(t, "RUNNING", Running.String())
}

func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	std := logrus.StandardLogger()
	prev := std.Out
	std.SetOutput(&buf)
	t.Cleanup(func() { std.SetOutput(prev) })
	return &buf
}

func TestLoadReportsLocatedDir(t *testing.T) {
	buf := captureStdLog(t)
	script := layout(t)

	b := New(script, nil, moduleFor(&recorder{}, nil))
	_, err := b.Load()

	require.NoError(t, err)
	want := filepath.Join(filepath.Dir(script), AppDir)
	assert.Equal(t, want, b.Dir())
	assert.Contains(t, buf.String(), "application package located")
	assert.Contains(t, buf.String(), want)
}

func TestLoadWarnsOnFallbackRoot(t *testing.T) {
	buf := captureStdLog(t)
	fallback := t.TempDir()
	script := filepath.Join(t.TempDir(), "main") // рядом нет server/

	b := New(script, SearchPath{fallback}, moduleFor(&recorder{}, nil))
	_, err := b.Load()

	require.NoError(t, err)
	assert.Equal(t, fallback, b.Dir())
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "using fallback")
}
