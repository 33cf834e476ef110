package fakestore

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-todo-client/internal/models"
)

// Handler はストアのHTTPハンドラーを管理します。
type Handler struct {
	store *Store
}

// NewHandler は新しいHandlerを作成します。
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ListUsers())
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.store.FindUser(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) GetUserByEmail(c *gin.Context) {
	u, err := h.store.FindUserByEmail(c.Param("email"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) SearchUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.SearchUsers(c.Query("searchTerm")))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.store.CreateUser(req))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	u, err := h.store.UpdateUser(id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteUser(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTodos(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ListTodos(nil))
}

func (h *Handler) GetTodo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.store.FindTodo(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTodosByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.ListTodos(func(t models.Todo) bool { return t.CreatedByUserID == userID }))
}

func (h *Handler) ListOverdueTodos(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ListOverdueTodos())
}

func (h *Handler) ListTodosByDateRange(c *gin.Context) {
	start, err := time.ParseInLocation(time.DateOnly, c.Query("startDate"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate", "details": err.Error()})
		return
	}
	end, err := time.ParseInLocation(time.DateOnly, c.Query("endDate"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.store.ListTodosByDateRange(start, end))
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var req models.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	t, fieldErrs, err := h.store.CreateTodo(req)
	if !h.writeTodoError(c, fieldErrs, err) {
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTodo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	t, fieldErrs, err := h.store.UpdateTodo(id, req)
	if !h.writeTodoError(c, fieldErrs, err) {
		return
	}
	c.JSON(http.StatusOK, t)
}

// writeTodoError はエラーがあればレスポンスを書き込み false を返します。
func (h *Handler) writeTodoError(c *gin.Context, fieldErrs models.FieldErrors, err error) bool {
	switch {
	case len(fieldErrs) > 0:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "errors": fieldErrs})
		return false
	case errors.Is(err, ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return false
	case errors.Is(err, ErrUnknownOwner):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save todo"})
		return false
	}
	return true
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteTodo(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Status(c *gin.Context) {
	users, todos, _ := h.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"hasData":   users > 0 || todos > 0,
		"userCount": users,
		"todoCount": todos,
	})
}

func (h *Handler) Summary(c *gin.Context) {
	users, todos, overdue := h.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":   users,
		"totalTodos":   todos,
		"overdueTodos": overdue,
	})
}

func (h *Handler) Reset(c *gin.Context) {
	h.store.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "All data has been reset"})
}

func (h *Handler) Initialize(c *gin.Context) {
	if !h.store.Seed() {
		c.JSON(http.StatusConflict, gin.H{"error": "Data already exists; reset before initializing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sample data initialized"})
}
