package board

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"task-manager/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyAPI оборачивает настоящий API и по флагу роняет мутации,
// чтобы проверять, что снимок доски не трогается при ошибках.
type flakyAPI struct {
	inner API
	fail  bool
}

var errBoom = errors.New("boom")

func (f *flakyAPI) List(ctx context.Context) ([]tasks.Task, error) {
	if f.fail {
		return nil, errBoom
	}
	return f.inner.List(ctx)
}

func (f *flakyAPI) Create(ctx context.Context, req tasks.CreateTaskRequest) (tasks.Task, error) {
	if f.fail {
		return tasks.Task{}, errBoom
	}
	return f.inner.Create(ctx, req)
}

func (f *flakyAPI) Update(ctx context.Context, id string, req tasks.UpdateTaskRequest) (tasks.Task, error) {
	if f.fail {
		return tasks.Task{}, errBoom
	}
	return f.inner.Update(ctx, id, req)
}

func (f *flakyAPI) Delete(ctx context.Context, id string) error {
	if f.fail {
		return errBoom
	}
	return f.inner.Delete(ctx, id)
}

func newTestBoard(t *testing.T) (*Board, *flakyAPI) {
	t.Helper()

	file := filepath.Join(t.TempDir(), "tasks.json")
	svc := tasks.NewService(tasks.NewFileStore(file))

	api := &flakyAPI{inner: svc}
	b := New(api)
	b.now = func() time.Time { return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC) }
	return b, api
}

func TestBoardRefetchesAfterMutations(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	created, err := b.Create(ctx, tasks.CreateTaskRequest{Title: "Buy groceries", DueDate: "2025-06-10"})
	require.NoError(t, err)
	// Снимок уже перечитан, без отдельного Refresh.
	require.Len(t, b.Tasks(), 1)

	_, err = b.Update(ctx, created.ID, tasks.UpdateTaskRequest{Title: ptr("Groceries run")})
	require.NoError(t, err)
	assert.Equal(t, "Groceries run", b.Tasks()[0].Title)

	require.NoError(t, b.Delete(ctx, created.ID))
	assert.Empty(t, b.Tasks())
}

func TestBoardKeepsSnapshotOnFailedMutation(t *testing.T) {
	b, api := newTestBoard(t)
	ctx := context.Background()

	_, err := b.Create(ctx, tasks.CreateTaskRequest{Title: "keep me", DueDate: "2025-06-10"})
	require.NoError(t, err)
	require.Len(t, b.Tasks(), 1)

	api.fail = true

	_, err = b.Create(ctx, tasks.CreateTaskRequest{Title: "never shown", DueDate: "2025-06-10"})
	require.Error(t, err)

	// Упавшая мутация не изменила показанный список.
	require.Len(t, b.Tasks(), 1)
	assert.Equal(t, "keep me", b.Tasks()[0].Title)
}

func TestBoardKeepsSnapshotOnFailedRefresh(t *testing.T) {
	b, api := newTestBoard(t)
	ctx := context.Background()

	_, err := b.Create(ctx, tasks.CreateTaskRequest{Title: "cached", DueDate: "2025-06-10"})
	require.NoError(t, err)

	api.fail = true
	require.Error(t, b.Refresh(ctx))
	assert.Len(t, b.Tasks(), 1)
}

func TestBoardVisibleRecomputes(t *testing.T) {
	b, _ := newTestBoard(t)
	ctx := context.Background()

	today, err := b.Create(ctx, tasks.CreateTaskRequest{Title: "Due today", DueDate: "2025-06-10T09:00"})
	require.NoError(t, err)
	_, err = b.Create(ctx, tasks.CreateTaskRequest{Title: "Due next week", DueDate: "2025-06-17"})
	require.NoError(t, err)

	b.SetBucket(tasks.BucketToday)
	visible := b.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Due today", visible[0].Title)

	b.SetBucket(tasks.BucketUpcoming)
	visible = b.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Due next week", visible[0].Title)

	b.SetQuery("today")
	assert.Empty(t, b.Visible())

	// Переключение готовности уводит задачу из today в completed.
	_, err = b.ToggleComplete(ctx, today.ID, true)
	require.NoError(t, err)

	b.SetQuery("")
	b.SetBucket(tasks.BucketToday)
	assert.Empty(t, b.Visible())
	b.SetBucket(tasks.BucketCompleted)
	require.Len(t, b.Visible(), 1)
	assert.Equal(t, today.ID, b.Visible()[0].ID)
}

func ptr(s string) *string { return &s }
