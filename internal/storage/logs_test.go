package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStepLog(t *testing.T) {
	ls := NewLogStorage(t.TempDir())

	path, err := ls.SaveStepLog("run-1", "test/ubuntu-latest-stable", "test", 1, "step output\n")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "step output\n", string(data))

	// Instance IDs contain a slash; the path stays inside the base dir.
	rel, err := filepath.Rel(ls.BaseDir, path)
	require.NoError(t, err)
	assert.NotContains(t, rel, "..")
	assert.Equal(t, "01_test.log", filepath.Base(path))
}

func TestSaveStepLogSequencing(t *testing.T) {
	ls := NewLogStorage(t.TempDir())

	p0, err := ls.SaveStepLog("run-1", "fmt", "toolchain", 0, "a")
	require.NoError(t, err)
	p1, err := ls.SaveStepLog("run-1", "fmt", "format-check", 1, "b")
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(p0), filepath.Dir(p1))
	assert.NotEqual(t, p0, p1)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "cargo_test__workspace", sanitize("cargo test %workspace"))
	assert.Equal(t, "step", sanitize(""))
	assert.Equal(t, "a-b_c.9", sanitize("a-b_c.9"))
}
