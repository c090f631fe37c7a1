package fileio

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteFileCreates tests writing a new file.
func TestWriteFileCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.json")

	require.NoError(t, WriteFile(path, []byte("{}"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

// TestWriteFilePreservesMode tests that an existing file keeps its mode.
//
// It verifies:
//   - Content is replaced
//   - Permission bits are unchanged
//   - No temp files are left behind
func TestWriteFilePreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFile(path, []byte("new"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// TestWriteAtomicReadOnly tests that read-only targets are rejected.
func TestWriteAtomicReadOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "ro.json")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o444))

	err := WriteFile(path, []byte("y"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	data, _ := os.ReadFile(path)
	assert.Equal(t, "x", string(data))
}

// TestWriteAtomicRenameFailure tests cleanup after a failed rename.
func TestWriteAtomicRenameFailure(t *testing.T) {
	orig := renameFunc
	renameFunc = func(string, string) error { return errors.New("rename blocked") }
	t.Cleanup(func() { renameFunc = orig })

	dir := t.TempDir()
	err := WriteAtomic(filepath.Join(dir, "a.json"), []byte("x"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename blocked")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestWriteFileMissingDir tests the error for a missing parent directory.
func TestWriteFileMissingDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "a.json"), []byte("x"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write temp file")
}
