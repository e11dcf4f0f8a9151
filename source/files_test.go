package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnitName(t *testing.T) {
	u := NewUnit("some/dir/Main.jack", "class Main {}")

	assert.Equal(t, "Main", u.Name)
	assert.Equal(t, "some/dir/Main.jack", u.Path)
}

func TestUnitLine(t *testing.T) {
	u := NewUnit("Main.jack", "first\r\nsecond\nthird")

	assert.Equal(t, "first", u.Line(1))
	assert.Equal(t, "second", u.Line(2))
	assert.Equal(t, "third", u.Line(3))
	assert.Equal(t, "", u.Line(0))
	assert.Equal(t, "", u.Line(4))
}

func TestPosString(t *testing.T) {
	assert.Equal(t, "Main:3:7", Pos{"Main", 3, 7}.String())
	assert.Equal(t, "Main:3", Pos{Unit: "Main", Line: 3}.String())
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.vm", "a.vm", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("return"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.vm"), 0o755))

	files, isDir, err := Discover(dir, ".vm")

	require.NoError(t, err)
	assert.True(t, isDir)
	assert.Equal(t, []string{filepath.Join(dir, "a.vm"), filepath.Join(dir, "b.vm")}, files)
}

func TestDiscoverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Main.jack")
	require.NoError(t, os.WriteFile(path, []byte("class Main {}"), 0o644))

	files, isDir, err := Discover(path, ".jack")
	require.NoError(t, err)
	assert.False(t, isDir)
	assert.Equal(t, []string{path}, files)

	_, _, err = Discover(path, ".vm")
	assert.Error(t, err)
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	_, _, err := Discover(t.TempDir(), ".jack")
	assert.ErrorContains(t, err, "no .jack files")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.jack"), []byte("class Main {}"), 0o644))

	units, isDir, err := Load(dir, ".jack")

	require.NoError(t, err)
	assert.True(t, isDir)
	require.Len(t, units, 1)
	assert.Equal(t, "Main", units[0].Name)
	assert.Equal(t, "class Main {}", units[0].Text)
}
