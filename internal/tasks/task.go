package tasks

import (
	"strings"
	"time"
)

// Допустимые значения приоритета задачи.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task — модель задачи.
//
// Хранится в документном хранилище как единый JSON-документ
// и в том же виде отдаётся наружу через API.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    string    `json:"priority"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest описывает контракт входящего JSON для создания задачи.
//
// DueDate принимаем строкой: клиенты присылают дату в разных форматах,
// парсинг и проверка — забота валидатора (тег duedate).
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	DueDate     string `json:"dueDate" validate:"required,duedate"`
	Priority    string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	// Не валидируем: bool, по умолчанию задача не выполнена.
	IsCompleted bool `json:"isCompleted"`
}

// UpdateTaskRequest — частичное обновление.
//
// Указатели нужны, чтобы отличать "поле не прислали" от "прислали нулевое
// значение": перезаписываем только то, что клиент явно передал.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// dueDateLayouts — форматы, в которых принимаем срок задачи.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate разбирает строку со сроком задачи.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	var firstErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// normalize приводит поля к каноническому виду перед валидацией:
// обрезает пробелы и подставляет приоритет по умолчанию.
func (r *CreateTaskRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.DueDate = strings.TrimSpace(r.DueDate)
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
}
