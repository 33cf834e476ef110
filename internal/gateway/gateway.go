// Package gateway はリモートストアのREST APIクライアントです。
package gateway

import (
	"context"
	"time"

	"go-todo-client/internal/models"
)

// UserGateway はユーザーのエンドポイントです。
type UserGateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, term string) ([]models.User, error)
	CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id int, req models.UserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// TodoGateway はTodoのエンドポイントです。
type TodoGateway interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	GetTodo(ctx context.Context, id int) (*models.Todo, error)
	ListTodosByUser(ctx context.Context, userID int) ([]models.Todo, error)
	ListOverdueTodos(ctx context.Context) ([]models.Todo, error)
	ListTodosByDateRange(ctx context.Context, start, end time.Time) ([]models.Todo, error)
	CreateTodo(ctx context.Context, req models.TodoRequest) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id int, req models.TodoRequest) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

// DataGateway はストアの状態管理エンドポイントです。
type DataGateway interface {
	Status(ctx context.Context) (models.DataStatus, error)
	Summary(ctx context.Context) (models.DataSummary, error)
	Reset(ctx context.Context) error
	Initialize(ctx context.Context) error
}

// Gateway はすべてのエンドポイントをまとめたものです。
type Gateway interface {
	UserGateway
	TodoGateway
	DataGateway
}

var _ Gateway = (*Client)(nil)
