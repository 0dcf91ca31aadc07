package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksRequireAuth(t *testing.T) {
	r := newTestRouter()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/some-id"},
		{http.MethodDelete, "/api/tasks/some-id"},
		{http.MethodGet, "/api/tasks/search?q=x"},
	} {
		w := doJSON(t, r, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestCreateTaskEndpoint(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{
		"title": "Buy milk", "priority": "High", "dueDate": "2026-09-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	task := decodeBody(t, w)["task"].(map[string]any)
	assert.Equal(t, "Buy milk", task["title"])
	assert.Equal(t, "High", task["priority"])
	assert.Equal(t, false, task["completed"])
	assert.NotEmpty(t, task["dueDate"])
}

func TestCreateTaskEndpointValidation(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "Alice", "alice@example.com", "password123")

	tests := []struct {
		name    string
		payload gin.H
	}{
		{"missing title", gin.H{"description": "no title"}},
		{"bad priority", gin.H{"title": "ok", "priority": "Urgent"}},
		{"bad due date", gin.H{"title": "ok", "dueDate": "next tuesday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/tasks", token, tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "Buy milk", "description": "2%"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)["task"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "Medium", created["priority"])

	// mark completed; other fields untouched
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+id, token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)["task"].(map[string]any)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "Buy milk", updated["title"])
	assert.Equal(t, "2%", updated["description"])
	assert.Equal(t, "Medium", updated["priority"])

	w = doJSON(t, r, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeBody(t, w)["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, true, tasks[0].(map[string]any)["completed"])

	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["tasks"])
}

func TestTaskOwnershipIsolation(t *testing.T) {
	r := newTestRouter()
	aliceToken := registerUser(t, r, "Alice", "alice@example.com", "password123")
	bobToken := registerUser(t, r, "Bob", "bob@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", aliceToken, gin.H{"title": "alice private"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["task"].(map[string]any)["id"].(string)

	// bob's list never includes alice's task
	w = doJSON(t, r, http.MethodGet, "/api/tasks", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["tasks"])

	// foreign id and nonexistent id are indistinguishable
	foreign := doJSON(t, r, http.MethodPut, "/api/tasks/"+id, bobToken, gin.H{"completed": true})
	missing := doJSON(t, r, http.MethodPut, "/api/tasks/no-such-task", bobToken, gin.H{"completed": true})
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, foreign.Body.String(), missing.Body.String())

	foreignDel := doJSON(t, r, http.MethodDelete, "/api/tasks/"+id, bobToken, nil)
	missingDel := doJSON(t, r, http.MethodDelete, "/api/tasks/no-such-task", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, foreignDel.Code)
	assert.Equal(t, http.StatusNotFound, missingDel.Code)
	assert.JSONEq(t, foreignDel.Body.String(), missingDel.Body.String())

	// alice still sees her task, untouched
	w = doJSON(t, r, http.MethodGet, "/api/tasks", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decodeBody(t, w)["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, false, tasks[0].(map[string]any)["completed"])
}

func TestUpdateTaskClearDueDate(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "with due", "dueDate": "2026-09-15"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["task"].(map[string]any)["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+id, token, gin.H{"dueDate": ""})
	require.Equal(t, http.StatusOK, w.Code)
	task := decodeBody(t, w)["task"].(map[string]any)
	assert.Nil(t, task["dueDate"])
}

func TestTaskSearchWithoutES(t *testing.T) {
	r := newTestRouter()
	token := registerUser(t, r, "Alice", "alice@example.com", "password123")

	w := doJSON(t, r, http.MethodGet, "/api/tasks/search?q=milk", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["tasks"])
}
