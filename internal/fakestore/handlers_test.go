package fakestore_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-client/internal/dates"
	"go-todo-client/internal/fakestore"
	"go-todo-client/internal/models"
)

var fixedNow = time.Date(2024, 2, 2, 10, 0, 0, 0, time.Local)

func setupRouter(t *testing.T) (*fakestore.Store, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := fakestore.NewStore(dates.FixedClock(fixedNow))
	return store, fakestore.NewRouter(store)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUser_Success(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/Users", models.UserRequest{Name: "Hana", Email: "hana@example.com"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Hana", u.Name)
}

func TestCreateUser_InvalidInput(t *testing.T) {
	_, r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/Users", models.UserRequest{Name: "", Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserLookups(t *testing.T) {
	store, r := setupRouter(t)
	a := store.CreateUser(models.UserRequest{Name: "Alice", Email: "alice@example.com"})
	store.CreateUser(models.UserRequest{Name: "Bob", Email: "bob@example.com"})

	t.Run("by email", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/Users/email/alice@example.com", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var u models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
		assert.Equal(t, a.ID, u.ID)
	})

	t.Run("search", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/Users/search?searchTerm=LIC", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var users []models.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].Name)
	})

	t.Run("not found", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/Users/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTodoLifecycle(t *testing.T) {
	store, r := setupRouter(t)
	owner := store.CreateUser(models.UserRequest{Name: "Alice", Email: "alice@example.com"})
	due := fixedNow.AddDate(0, 0, 3)

	w := doJSON(t, r, http.MethodPost, "/api/Todos", models.TodoRequest{
		Description: "Write tests", Order: 2, CreatedByUserID: owner.ID, DueDate: &due,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.WithinDuration(t, fixedNow, created.CreatedOn, time.Second)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/Todos/%d", created.ID), models.TodoRequest{
		Description: "Write more tests", Order: 1, CreatedByUserID: owner.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Write more tests", updated.Description)
	assert.True(t, created.CreatedOn.Equal(updated.CreatedOn), "createdOn is immutable")
	assert.Nil(t, updated.DueDate)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/Todos/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/Todos/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTodo_Rejections(t *testing.T) {
	store, r := setupRouter(t)
	owner := store.CreateUser(models.UserRequest{Name: "Alice", Email: "alice@example.com"})
	past := fixedNow.AddDate(0, 0, -1)

	t.Run("due before created", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/Todos", models.TodoRequest{
			Description: "late", Order: 1, CreatedByUserID: owner.ID, DueDate: &past,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dates.MsgDueBeforeCreated)
	})

	t.Run("unknown owner", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/Todos", models.TodoRequest{
			Description: "orphan", Order: 1, CreatedByUserID: 404,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("order below one", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/Todos", models.TodoRequest{
			Description: "zero", Order: 0, CreatedByUserID: owner.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDataEndpoints(t *testing.T) {
	store, r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/Data/initialize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users, todos, overdue := store.Counts()
	assert.Equal(t, 3, users)
	assert.Equal(t, 6, todos)
	assert.Equal(t, 2, overdue)

	w = doJSON(t, r, http.MethodPost, "/api/Data/initialize", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/Todos/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var late []models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &late))
	assert.Len(t, late, 2)

	w = doJSON(t, r, http.MethodGet, "/api/Data/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasData":true`)

	w = doJSON(t, r, http.MethodPost, "/api/Data/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users, todos, _ = store.Counts()
	assert.Zero(t, users)
	assert.Zero(t, todos)
}

func TestDeleteUser_CascadesTodos(t *testing.T) {
	store, r := setupRouter(t)
	store.Seed()

	w := doJSON(t, r, http.MethodDelete, "/api/Users/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, todo := range store.ListTodos(nil) {
		assert.NotEqual(t, 1, todo.CreatedByUserID)
	}
}
