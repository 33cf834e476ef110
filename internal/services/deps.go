// Package services はフォーム検証、リモートストア呼び出し、キャッシュへの反映をまとめます。
package services

import (
	"github.com/charmbracelet/log"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/dates"
	"go-todo-client/internal/gateway"
	"go-todo-client/internal/logging"
	"go-todo-client/internal/session"
)

// Deps は各サービスが共有する依存関係です。
// Todos と Users は画面間で共有する正規コレクションです。
type Deps struct {
	Gateway gateway.Gateway
	Session *session.Holder
	Todos   *collection.Todos
	Users   *collection.Users
	Clock   dates.Clock
	Logger  *log.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Todos == nil {
		d.Todos = collection.NewTodos()
	}
	if d.Users == nil {
		d.Users = collection.NewUsers()
	}
	if d.Clock == nil {
		d.Clock = dates.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return d
}
