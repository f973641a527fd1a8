package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "tasks.json")
	return NewFileStore(file), file
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	fs, _ := newTestFileStore(t)

	list, err := fs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileStoreNotFound(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	_, err := fs.Get(ctx, "t_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, fs.Replace(ctx, Task{ID: "t_missing"}), ErrNotFound)
	assert.ErrorIs(t, fs.Delete(ctx, "t_missing"), ErrNotFound)
}

func TestFileStoreInsertGetReplaceDelete(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	task := Task{
		ID:       "t_1",
		Title:    "first",
		Priority: PriorityMedium,
		DueDate:  time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, fs.Insert(ctx, task))

	got, err := fs.Get(ctx, "t_1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	task.Title = "renamed"
	require.NoError(t, fs.Replace(ctx, task))
	got, err = fs.Get(ctx, "t_1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	require.NoError(t, fs.Delete(ctx, "t_1"))
	_, err = fs.Get(ctx, "t_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreCorruptFile(t *testing.T) {
	fs, file := newTestFileStore(t)

	require.NoError(t, os.WriteFile(file, []byte("{broken"), 0644))

	_, err := fs.List(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, fs.Ping(context.Background()), ErrStoreUnavailable)
}
