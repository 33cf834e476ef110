package dates

import (
	"time"

	"go-todo-client/internal/models"
)

// IsOverdue は期限日の翌日以降であれば true を返します。期限日当日は期限切れではありません。
func IsOverdue(todo models.Todo, now time.Time) bool {
	if todo.DueDate == nil {
		return false
	}
	return NormalizeDay(now).After(NormalizeDay(*todo.DueDate))
}
