package outdir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var when = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func TestCreateRunDirAndInfo(t *testing.T) {
	base := t.TempDir()
	dir, err := CreateRunDir(base, when, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "aidigest", "20240309_140507"), dir)
	assert.DirExists(t, dir)

	id := uuid.NewString()
	path, err := WriteInfo(dir, Info{Command: "aidigest . --exclude dist", Timestamp: when, RunID: id})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Command: aidigest . --exclude dist\nTimestamp: 2024-03-09 14:05:07\nRun ID: "+id+"\n", string(data))
}

func TestLatestRoundTrip(t *testing.T) {
	base := t.TempDir()
	_, err := ReadLatest(base)
	assert.ErrorIs(t, err, ErrNoLatest)

	doc := filepath.Join(base, "aidigest", "20240309_140507", DocumentName)
	require.NoError(t, os.MkdirAll(filepath.Dir(doc), 0o755))
	require.NoError(t, os.WriteFile(doc, []byte("# a\n"), 0o644))

	st := State{Path: doc, RunID: "run-1", Created: when}
	require.NoError(t, RecordLatest(base, st))

	got, err := ReadLatest(base)
	require.NoError(t, err)
	assert.Equal(t, doc, got.Path)
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, when.Equal(got.Created))

	require.NoError(t, os.Remove(doc))
	_, err = ReadLatest(base)
	assert.ErrorIs(t, err, ErrNoLatest)
}

func TestListRecent(t *testing.T) {
	base := t.TempDir()
	_, err := ListRecent(base, 5)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	names := []string{"20240101_000000", "20240301_120000", "20240201_080000", "20231231_235959", "20240401_000000", "20240501_000000"}
	for _, name := range names {
		dir := filepath.Join(base, "aidigest", name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, InfoName), []byte("Command: aidigest\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(base, "aidigest", "20240501_000000", DocumentName), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "aidigest", StateName), []byte("path: x\n"), 0o644))

	runs, err := ListRecent(base, 5)
	require.NoError(t, err)
	require.Len(t, runs, 5)

	got := make([]string, len(runs))
	for i, r := range runs {
		got[i] = r.Name
	}
	assert.Equal(t, []string{"20240501_000000", "20240401_000000", "20240301_120000", "20240201_080000", "20240101_000000"}, got)
	assert.NotEmpty(t, runs[0].Document)
	assert.Empty(t, runs[1].Document)
	assert.Equal(t, "Command: aidigest\n", runs[0].Info)
}
