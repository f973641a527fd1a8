// Service — слой бизнес-логики над Repository:
// валидация кандидата, назначение id и таймстемпов, частичное слияние.
package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service реализует жизненный цикл задачи.
//
// Единственный писатель состояния: хендлеры и клиенты никогда не меняют
// задачу напрямую, только через эти методы. Сервис не кэширует — каждое
// чтение идёт в хранилище.
//
// Конкурентные обновления одной задачи не согласуются: побеждает последняя
// успешная запись, без версионирования. Для однопользовательского списка
// задач это осознанное ограничение.
type Service struct {
	repo Repository

	// now подменяется в тестах, чтобы проверять createdAt/updatedAt.
	now func() time.Time
}

// NewService создаёт сервис поверх выбранного движка хранения.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create валидирует кандидата, назначает id и таймстемпы, сохраняет.
//
// Либо запись целиком принята и сохранена, либо ничего не записано:
// невалидный кандидат до хранилища не доходит.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	if err := Validate(&req); err != nil {
		return Task{}, err
	}

	due, err := ParseDueDate(req.DueDate)
	if err != nil {
		// Validate уже проверил парсинг, сюда не попадаем.
		return Task{}, err
	}

	now := s.now()
	task := Task{
		// UUID: id уникален и никогда не переиспользуется после удаления.
		ID:          "t_" + uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
		IsCompleted: req.IsCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// List возвращает все задачи в порядке вставки.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Get возвращает задачу по id либо ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	return s.repo.Get(ctx, id)
}

// Update выполняет частичное обновление: перезаписываются только поля,
// которые клиент прислал (указатель != nil), затем СЛИТАЯ запись целиком
// проходит повторную валидацию и только после этого сохраняется.
func (s *Service) Update(ctx context.Context, id string, req UpdateTaskRequest) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}

	// Собираем кандидата из существующей записи и присланных полей.
	candidate := CreateTaskRequest{
		Title:       existing.Title,
		Description: existing.Description,
		DueDate:     existing.DueDate.Format(time.RFC3339Nano),
		Priority:    existing.Priority,
		IsCompleted: existing.IsCompleted,
	}
	if req.Title != nil {
		candidate.Title = *req.Title
	}
	if req.Description != nil {
		candidate.Description = *req.Description
	}
	if req.DueDate != nil {
		candidate.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		candidate.Priority = strings.TrimSpace(*req.Priority)
	}
	if req.IsCompleted != nil {
		candidate.IsCompleted = *req.IsCompleted
	}

	if err := Validate(&candidate); err != nil {
		return Task{}, err
	}

	due, err := ParseDueDate(candidate.DueDate)
	if err != nil {
		return Task{}, err
	}

	merged := Task{
		ID:          existing.ID,
		Title:       candidate.Title,
		Description: candidate.Description,
		DueDate:     due,
		Priority:    candidate.Priority,
		IsCompleted: candidate.IsCompleted,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   s.now(),
	}

	if err := s.repo.Replace(ctx, merged); err != nil {
		return Task{}, err
	}
	return merged, nil
}

// Delete безвозвратно удаляет задачу.
// Повторное удаление того же id — ErrNotFound, а не тихий успех.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
