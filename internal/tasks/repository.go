package tasks

import (
	"context"
	"errors"
)

// Ошибки слоя хранения. Сервис и хендлеры различают их через errors.Is,
// поэтому наружу они уходят именованными, а не схлопнутыми в одну.
var (
	// ErrNotFound — записи с таким id нет.
	ErrNotFound = errors.New("task not found")

	// ErrStoreUnavailable — хранилище недоступно (диск, сеть, БД).
	// Ретраи — забота вызывающего слоя, ядро не повторяет операции.
	ErrStoreUnavailable = errors.New("task store unavailable")
)

// Repository — абстракция над документной коллекцией задач.
//
// Движок хранения (Postgres или JSON-файл) выбирается конфигурацией,
// сервис работает только через этот интерфейс. Запись атомарна на уровне
// одного документа, это гарантия движка, не сервиса.
type Repository interface {
	// Insert добавляет новый документ. id уже назначен сервисом.
	Insert(ctx context.Context, task Task) error

	// List возвращает все задачи в порядке вставки.
	List(ctx context.Context) ([]Task, error)

	// Get возвращает задачу по id либо ErrNotFound.
	Get(ctx context.Context, id string) (Task, error)

	// Replace целиком заменяет документ с данным id либо ErrNotFound.
	Replace(ctx context.Context, task Task) error

	// Delete безвозвратно удаляет документ либо ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Ping проверяет доступность хранилища (health-check).
	Ping(ctx context.Context) error

	// Close освобождает соединение. Вызывается один раз при остановке процесса.
	Close() error
}
