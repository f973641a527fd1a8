package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"task-manager/internal/tasks"

	"github.com/sirupsen/logrus"
)

// Client — HTTP-клиент Task API, реализует интерфейс API.
//
// Восстанавливает типизированные ошибки ядра из конверта ответа,
// чтобы вызывающий код различал NotFound и валидацию через errors.Is/As
// точно так же, как при прямой работе с сервисом.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *logrus.Logger
}

// NewClient создаёт клиента с общим таймаутом на запрос.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// envelope — конверт ответа Task API.
type envelope struct {
	Success bool                   `json:"success"`
	Data    json.RawMessage        `json:"data"`
	Message string                 `json:"message"`
	Errors  []tasks.FieldViolation `json:"errors"`
}

func (c *Client) List(ctx context.Context) ([]tasks.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/tasks", nil)
	if err != nil {
		return nil, err
	}

	var list []tasks.Task
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return list, nil
}

func (c *Client) Create(ctx context.Context, req tasks.CreateTaskRequest) (tasks.Task, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/tasks", req)
	if err != nil {
		return tasks.Task{}, err
	}
	return decodeTask(env)
}

func (c *Client) Update(ctx context.Context, id string, req tasks.UpdateTaskRequest) (tasks.Task, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, req)
	if err != nil {
		return tasks.Task{}, err
	}
	return decodeTask(env)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil)
	return err
}

// do выполняет запрос и разворачивает конверт либо ошибку.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	entry := c.logger.WithFields(logrus.Fields{
		"component": "task_client",
		"method":    method,
		"path":      path,
	})

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		entry.WithError(err).Error("task api unreachable")
		return nil, fmt.Errorf("task api unreachable: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if env.Success {
		return &env, nil
	}

	// Восстанавливаем таксономию ядра из статуса и конверта.
	switch {
	case resp.StatusCode == http.StatusNotFound:
		entry.Debug("task not found")
		return nil, tasks.ErrNotFound
	case resp.StatusCode == http.StatusServiceUnavailable:
		entry.Error("task store unavailable")
		return nil, fmt.Errorf("%w: %s", tasks.ErrStoreUnavailable, env.Message)
	case len(env.Errors) > 0:
		entry.WithField("violations", len(env.Errors)).Debug("validation failed")
		return nil, &tasks.ValidationError{Violations: env.Errors}
	default:
		entry.WithField("status", resp.StatusCode).Error("task api error")
		return nil, fmt.Errorf("task api error: %s", env.Message)
	}
}

func decodeTask(env *envelope) (tasks.Task, error) {
	var t tasks.Task
	if err := json.Unmarshal(env.Data, &t); err != nil {
		return tasks.Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, nil
}
