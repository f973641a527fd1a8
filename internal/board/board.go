// Package board — клиентский синхронизатор списка задач.
//
// Цикл работы: мутация -> подтверждение API -> полная перезагрузка списка ->
// пересчёт видимого подмножества чистыми функциями классификации.
// Никакого оптимистичного применения: упавшая мутация не трогает
// показанный список.
package board

import (
	"context"
	"time"

	"task-manager/internal/tasks"
)

// API — операции Task API, которые нужны синхронизатору.
// Его реализуют и *tasks.Service (встраивание в один процесс),
// и *Client (работа по HTTP).
type API interface {
	List(ctx context.Context) ([]tasks.Task, error)
	Create(ctx context.Context, req tasks.CreateTaskRequest) (tasks.Task, error)
	Update(ctx context.Context, id string, req tasks.UpdateTaskRequest) (tasks.Task, error)
	Delete(ctx context.Context, id string) error
}

// Board держит снимок состояния: полный список задач, активную корзину
// и строку поиска. Снимок меняется только целиком через Refresh;
// Visible каждый раз пересчитывается заново.
//
// Не потокобезопасен: рассчитан на один UI-поток.
type Board struct {
	api API

	list   []tasks.Task
	bucket tasks.Bucket
	query  string

	// now подменяется в тестах классификации.
	now func() time.Time
}

// New создаёт пустую доску. Первый список появится после Refresh.
func New(api API) *Board {
	return &Board{
		api:    api,
		list:   []tasks.Task{},
		bucket: tasks.BucketAll,
		now:    time.Now,
	}
}

// Refresh перечитывает полный список задач из API.
// При ошибке прежний снимок остаётся на месте.
func (b *Board) Refresh(ctx context.Context) error {
	list, err := b.api.List(ctx)
	if err != nil {
		return err
	}
	b.list = list
	return nil
}

// SetBucket переключает активную корзину.
func (b *Board) SetBucket(bucket tasks.Bucket) {
	b.bucket = bucket
}

// SetQuery задаёт строку поиска.
func (b *Board) SetQuery(query string) {
	b.query = query
}

// Bucket возвращает активную корзину.
func (b *Board) Bucket() tasks.Bucket {
	return b.bucket
}

// Query возвращает активную строку поиска.
func (b *Board) Query() string {
	return b.query
}

// Tasks возвращает копию полного снимка.
func (b *Board) Tasks() []tasks.Task {
	out := make([]tasks.Task, len(b.list))
	copy(out, b.list)
	return out
}

// Visible — видимое подмножество для текущей корзины и поиска.
func (b *Board) Visible() []tasks.Task {
	return tasks.Visible(b.list, b.bucket, b.query, b.now())
}

// Create создаёт задачу и, если API подтвердил, перечитывает список.
func (b *Board) Create(ctx context.Context, req tasks.CreateTaskRequest) (tasks.Task, error) {
	created, err := b.api.Create(ctx, req)
	if err != nil {
		return tasks.Task{}, err
	}
	return created, b.Refresh(ctx)
}

// Update частично обновляет задачу и перечитывает список после успеха.
func (b *Board) Update(ctx context.Context, id string, req tasks.UpdateTaskRequest) (tasks.Task, error) {
	updated, err := b.api.Update(ctx, id, req)
	if err != nil {
		return tasks.Task{}, err
	}
	return updated, b.Refresh(ctx)
}

// Delete удаляет задачу и перечитывает список после успеха.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.Delete(ctx, id); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

// ToggleComplete — переключение готовности. Это не отдельная операция API,
// а частичное обновление одного поля isCompleted.
func (b *Board) ToggleComplete(ctx context.Context, id string, done bool) (tasks.Task, error) {
	return b.Update(ctx, id, tasks.UpdateTaskRequest{IsCompleted: &done})
}
