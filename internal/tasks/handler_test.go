package tasks

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestServer поднимает полный HTTP-слой над файловым движком.
func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	file := filepath.Join(t.TempDir(), "tasks.json")
	svc := NewService(NewFileStore(file))
	handler := NewHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Mount("/api/tasks", handler.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, handler
}

// doJSON — запрос с JSON-телом, ответ разворачивается в конверт.
func doJSON(t *testing.T, method, url string, body interface{}) (int, Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env Response, out interface{}) {
	t.Helper()
	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestHandlerCreate(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", CreateTaskRequest{
		Title:   "Buy groceries",
		DueDate: "2025-06-12",
	})

	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)
	assert.Equal(t, "created", env.Message)

	var task Task
	decodeData(t, env, &task)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
}

func TestHandlerCreateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", CreateTaskRequest{
		DueDate: "not-a-date",
	})

	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
	assert.Equal(t, "Validation failed", env.Message)

	// Оба нарушения в одном ответе, с полями и кодами.
	codes := make([]string, len(env.Errors))
	for i, v := range env.Errors {
		codes[i] = v.Code
	}
	assert.ElementsMatch(t, []string{CodeMissingTitle, CodeInvalidDueDate}, codes)
}

func TestHandlerCreateBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/tasks", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerGetNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := doJSON(t, http.MethodGet, srv.URL+"/api/tasks/t_missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Task not found", env.Message)
}

func TestHandlerCRUDFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	base := srv.URL + "/api/tasks"

	// create
	_, env := doJSON(t, http.MethodPost, base, CreateTaskRequest{Title: "x", DueDate: "2025-06-12"})
	var created Task
	decodeData(t, env, &created)

	// get
	status, env := doJSON(t, http.MethodGet, base+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var got Task
	decodeData(t, env, &got)
	assert.Equal(t, created.ID, got.ID)

	// partial update: toggle готовности
	done := true
	status, env = doJSON(t, http.MethodPut, base+"/"+created.ID, UpdateTaskRequest{IsCompleted: &done})
	require.Equal(t, http.StatusOK, status)
	var updated Task
	decodeData(t, env, &updated)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "x", updated.Title)

	// delete
	status, env = doJSON(t, http.MethodDelete, base+"/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Task deleted", env.Message)

	// повторное удаление — 404
	status, _ = doJSON(t, http.MethodDelete, base+"/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerUpdateNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	done := true
	status, _ := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/t_missing", UpdateTaskRequest{IsCompleted: &done})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerListWithFilterAndSearch(t *testing.T) {
	srv, handler := newTestServer(t)
	base := srv.URL + "/api/tasks"

	// Классификация считается относительно фиксированного "сейчас".
	handler.now = func() time.Time { return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC) }

	doJSON(t, http.MethodPost, base, CreateTaskRequest{Title: "Buy Groceries", DueDate: "2025-06-10T09:00"})
	doJSON(t, http.MethodPost, base, CreateTaskRequest{Title: "Dentist", DueDate: "2025-06-10T11:00"})
	doJSON(t, http.MethodPost, base, CreateTaskRequest{Title: "More groceries", DueDate: "2025-06-17"})

	// Без параметров — полный список.
	status, env := doJSON(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	var list []Task
	decodeData(t, env, &list)
	assert.Len(t, list, 3)

	// filter=today
	_, env = doJSON(t, http.MethodGet, base+"?filter=today", nil)
	decodeData(t, env, &list)
	assert.Len(t, list, 2)

	// filter+search: пересечение
	_, env = doJSON(t, http.MethodGet, base+"?filter=today&search=gro", nil)
	decodeData(t, env, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy Groceries", list[0].Title)

	// Неизвестный фильтр — как all.
	_, env = doJSON(t, http.MethodGet, base+"?filter=bogus", nil)
	decodeData(t, env, &list)
	assert.Len(t, list, 3)
}
