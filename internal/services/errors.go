package services

import (
	"errors"
	"fmt"

	"go-todo-client/internal/models"
)

// ErrNoActiveUser はユーザーが選択されていない場合のエラーです。
var ErrNoActiveUser = errors.New("no user selected")

// OpError は画面に表示するエラーバナーです。"Failed to <op>: <理由>" の形式になります。
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("Failed to %s: %s", e.Op, e.Err.Error())
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

// ValidationError はフォームの検証エラーです。ゲートウェイは呼ばれていません。
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}
