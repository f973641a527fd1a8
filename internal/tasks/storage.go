package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileStore хранит коллекцию задач в одном JSON-файле.
//
// Движок по умолчанию: нулевая инфраструктура, удобно для локальной работы
// и тестов. Потокобезопасен: операции защищены RWMutex, каждая мутация —
// это полный цикл "прочитать файл, изменить список, записать файл".
type FileStore struct {
	mu       sync.RWMutex
	filename string
}

// NewFileStore создаёт файловое хранилище задач.
func NewFileStore(filename string) *FileStore {
	return &FileStore{filename: filename}
}

func (fs *FileStore) Insert(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	list, err := fs.load()
	if err != nil {
		return err
	}

	list = append(list, task)
	return fs.save(list)
}

func (fs *FileStore) List(ctx context.Context) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.load()
}

func (fs *FileStore) Get(ctx context.Context, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	list, err := fs.load()
	if err != nil {
		return Task{}, err
	}

	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

func (fs *FileStore) Replace(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	list, err := fs.load()
	if err != nil {
		return err
	}

	for i := range list {
		if list[i].ID == task.ID {
			list[i] = task
			return fs.save(list)
		}
	}
	return ErrNotFound
}

func (fs *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	list, err := fs.load()
	if err != nil {
		return err
	}

	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			return fs.save(list)
		}
	}
	return ErrNotFound
}

// Ping проверяет, что каталог с файлом доступен и файл читается.
func (fs *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, err := fs.load()
	return err
}

// Close у файлового движка освобождать нечего: файл не держим открытым.
func (fs *FileStore) Close() error {
	return nil
}

// load читает задачи из файла. Вызывать только под мьютексом.
func (fs *FileStore) load() ([]Task, error) {
	data, err := os.ReadFile(fs.filename)
	if err != nil {
		if os.IsNotExist(err) {
			// Файла нет — нормальная ситуация для первого запуска.
			return []Task{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Пустой файл — не ошибка, просто нет задач.
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Task{}, nil
	}

	var list []Task
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return list, nil
}

// save пишет задачи в файл. Вызывать только под мьютексом.
//
// MarshalIndent — чтобы файл оставался читаемым глазами.
func (fs *FileStore) save(list []Task) error {
	data, err := json.MarshalIndent(list, "", "   ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := os.WriteFile(fs.filename, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
