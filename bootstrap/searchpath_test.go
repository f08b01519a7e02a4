package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrependsAppDir(t *testing.T) {
	tmp := t.TempDir()
	script := filepath.Join(tmp, "bin", "ecatprep")
	base := SearchPath{"/opt/a", "/opt/b"}

	got := Resolve(script, base)

	require.Len(t, got, 3)
	assert.Equal(t, filepath.Join(tmp, "bin", AppDir), got[0])
	assert.Equal(t, []string{"/opt/a", "/opt/b"}, got.Roots()[1:])
	assert.Equal(t, SearchPath{"/opt/a", "/opt/b"}, base, "base must not be modified")
}

func TestResolveRelativeScript(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got := Resolve("main", nil)

	require.Len(t, got, 1)
	assert.True(t, filepath.IsAbs(got[0]))
	assert.Equal(t, filepath.Join(wd, AppDir), got[0])
}

func TestResolveRepeatedKeepsEntries(t *testing.T) {
	script := filepath.Join(t.TempDir(), "main")
	base := SearchPath{"/srv/x"}

	once := Resolve(script, base)
	twice := Resolve(script, once)

	require.Len(t, twice, 3)
	assert.Equal(t, once[0], twice[0])
	assert.Equal(t, once[0], twice[1])
	assert.Equal(t, "/srv/x", twice[2])

	dir, ok := Locate(twice)
	d1, ok1 := Locate(once)
	assert.Equal(t, ok1, ok)
	assert.Equal(t, d1, dir, "duplicates must not change resolution")
}

func TestResolveDoesNotTouchFilesystem(t *testing.T) {
	tmp := t.TempDir()
	got := Resolve(filepath.Join(tmp, "main"), nil)

	_, err := os.Stat(got[0])
	assert.True(t, os.IsNotExist(err))
}

func TestPrependCopies(t *testing.T) {
	base := make(SearchPath, 1, 4)
	base[0] = "/b"
	p1 := base.Prepend("/x")
	p2 := base.Prepend("/y")
	assert.Equal(t, SearchPath{"/x", "/b"}, p1)
	assert.Equal(t, SearchPath{"/y", "/b"}, p2)
}
