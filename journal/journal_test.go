package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	N int `json:"n"`
}

func TestAppendAndRead(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "log.json"), 100)

	require.NoError(t, j.Append(entry{N: 1}))
	require.NoError(t, j.Append(entry{N: 2}))

	assert.Equal(t, 2, j.Len())
}

func TestAppendTrimsToCap(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "log.json"), 5)

	for i := 0; i < 12; i++ {
		require.NoError(t, j.Append(entry{N: i}))
	}

	entries := j.Entries()
	require.Len(t, entries, 5)
	assert.JSONEq(t, `{"n":7}`, string(entries[0]))
	assert.JSONEq(t, `{"n":11}`, string(entries[4]))
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	j := New(path, 10)
	assert.Equal(t, 0, j.Len())

	require.NoError(t, j.Append(entry{N: 1}))
	assert.Equal(t, 1, j.Len())
}

func TestNoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	j := New(filepath.Join(dir, "log.json"), 10)
	require.NoError(t, j.Append(entry{N: 1}))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "log.json", files[0].Name())
}
