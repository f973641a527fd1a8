// Handler — HTTP-слой модуля задач.
//
// Здесь лежит всё, что относится к HTTP: роуты, парсинг JSON, коды ответов,
// конверт ответа. Состояния между запросами нет, side-эффекты — только
// вызовы сервиса.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appMiddleware "task-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Response — единый конверт ответа API.
//
// Data несёт Task или []Task, Message — человекочитаемый текст,
// Errors — список нарушений валидации по полям.
type Response struct {
	Success bool             `json:"success"`
	Data    interface{}      `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
	Errors  []FieldViolation `json:"errors,omitempty"`
}

type Handler struct {
	svc    *Service
	logger *logrus.Logger

	// now подменяется в тестах классификации через query-параметры.
	now func() time.Time
}

// NewHandler создаёт HTTP-слой поверх сервиса.
func NewHandler(svc *Service, logger *logrus.Logger) *Handler {
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

// Routes собирает роутер задач. Монтируется под /api/tasks.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Content-Type общий для всего tasks API, убираем дубли из хендлеров.
	r.Use(appMiddleware.JSONHeaderMiddleware)

	// Таймаут на каждый запрос: нижние слои уважают ctx,
	// так что зависший диск или БД не повесят обработчик навсегда.
	r.Use(appMiddleware.RequestTimeoutMiddleware(15 * time.Second))

	r.Get("/", h.listTasks)
	r.Post("/", h.createTask)
	r.Get("/{id}", h.getTaskByID)
	r.Put("/{id}", h.updateTask)
	r.Delete("/{id}", h.deleteTask)

	return r
}

// listTasks обрабатывает GET /api/tasks
//
// Без параметров возвращает полный список. Опциональные ?filter= и ?search=
// прогоняют список через движок классификации на стороне сервера.
func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := h.logEntry(r, "listTasks")

	list, err := h.svc.List(ctx)
	if err != nil {
		h.writeError(w, entry, err)
		return
	}

	filter := r.URL.Query().Get("filter")
	search := r.URL.Query().Get("search")
	if filter != "" || search != "" {
		list = Visible(list, ParseBucket(filter), search, h.now())
	}

	entry.WithField("count", len(list)).Debug("tasks listed")
	writeJSON(w, http.StatusOK, Response{Success: true, Data: list})
}

// createTask обрабатывает POST /api/tasks
func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := h.logEntry(r, "createTask")

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		entry.WithError(err).Warn("invalid request body")
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON"})
		return
	}

	task, err := h.svc.Create(ctx, req)
	if err != nil {
		h.writeError(w, entry, err)
		return
	}

	entry.WithField("task_id", task.ID).Info("task created")
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: task, Message: "created"})
}

// getTaskByID обрабатывает GET /api/tasks/{id}
func (h *Handler) getTaskByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := h.logEntry(r, "getTaskByID")

	id := chi.URLParam(r, "id")
	task, err := h.svc.Get(ctx, id)
	if err != nil {
		h.writeError(w, entry, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: task})
}

// updateTask обрабатывает PUT /api/tasks/{id}
//
// Частичное обновление: в body только те поля, которые нужно изменить.
func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := h.logEntry(r, "updateTask")

	id := chi.URLParam(r, "id")

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		entry.WithError(err).Warn("invalid request body")
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON"})
		return
	}

	task, err := h.svc.Update(ctx, id, req)
	if err != nil {
		h.writeError(w, entry, err)
		return
	}

	entry.WithField("task_id", id).Info("task updated")
	writeJSON(w, http.StatusOK, Response{Success: true, Data: task})
}

// deleteTask обрабатывает DELETE /api/tasks/{id}
func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry := h.logEntry(r, "deleteTask")

	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(ctx, id); err != nil {
		h.writeError(w, entry, err)
		return
	}

	entry.WithField("task_id", id).Info("task deleted")
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Task deleted"})
}

// logEntry — запись лога с общими полями запроса.
func (h *Handler) logEntry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": chiMiddleware.GetReqID(r.Context()),
	})
}

// writeError переводит ошибки ядра в HTTP-ответы.
//
// Таксономия не схлопывается: валидация, "не найдено" и недоступное
// хранилище уходят клиенту различимыми, чтобы тот мог показать
// сообщения по конкретным полям.
func (h *Handler) writeError(w http.ResponseWriter, entry *logrus.Entry, err error) {
	var verr *ValidationError

	switch {
	case errors.As(err, &verr):
		entry.WithField("violations", len(verr.Violations)).Warn("validation failed")
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Violations,
		})
	case errors.Is(err, ErrNotFound):
		entry.Warn("task not found")
		writeJSON(w, http.StatusNotFound, Response{Success: false, Message: "Task not found"})
	case errors.Is(err, ErrStoreUnavailable):
		entry.WithError(err).Error("task store unavailable")
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Message: "Task store unavailable"})
	case errors.Is(err, context.Canceled):
		// Клиент ушёл или сервер останавливается: отвечать уже некому.
		entry.Debug("request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		entry.Warn("request timeout")
		writeJSON(w, http.StatusRequestTimeout, Response{Success: false, Message: "Request timeout"})
	default:
		entry.WithError(err).Error("internal error")
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "Something went wrong!"})
	}
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
