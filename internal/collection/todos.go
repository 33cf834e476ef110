package collection

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"go-todo-client/internal/dates"
	"go-todo-client/internal/models"
)

// Filter はTodo一覧の絞り込み条件です。どちらも所有者で絞った後に適用されます。
type Filter string

const (
	FilterAll     Filter = "all"
	FilterOverdue Filter = "overdue"
)

// ParseFilter は文字列から Filter を返します。"user" は "all" の別名です。
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", string(FilterAll), "user":
		return FilterAll, nil
	case string(FilterOverdue):
		return FilterOverdue, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all or overdue)", s)
}

func byOrder(a, b models.Todo) int { return cmp.Compare(a.Order, b.Order) }

// SortStable は order の昇順に並べた新しいスライスを返します。同じ order の要素は入力順を保ちます。
func SortStable(todos []models.Todo) []models.Todo {
	out := slices.Clone(todos)
	if out == nil {
		out = []models.Todo{}
	}
	slices.SortStableFunc(out, byOrder)
	return out
}

// Todos はTodoの正規コレクションです。
type Todos struct {
	list *list[models.Todo]
}

// NewTodos は空のコレクションを作成します。
func NewTodos() *Todos {
	return &Todos{list: newList(byOrder)}
}

// Replace は取得結果でコレクション全体を置き換えます。
func (c *Todos) Replace(todos []models.Todo) { c.list.replace(todos) }

// All は並び順どおりのコピーを返します。
func (c *Todos) All() []models.Todo { return c.list.snapshot() }

// Len は件数を返します。
func (c *Todos) Len() int { return c.list.len() }

// Find は id のTodoを返します。
func (c *Todos) Find(id int) (models.Todo, bool) { return c.list.find(id) }

// View は ownerID のTodoを filter で絞り込み、order 順で返します。
// 正規コレクションは変更しません。
func (c *Todos) View(filter Filter, ownerID int, now time.Time) []models.Todo {
	return FilterTodos(c.list.snapshot(), filter, ownerID, now)
}

// FilterTodos は View と同じ絞り込みを任意のスライスに適用します。
func FilterTodos(todos []models.Todo, filter Filter, ownerID int, now time.Time) []models.Todo {
	out := []models.Todo{}
	for _, t := range SortStable(todos) {
		if t.CreatedByUserID != ownerID {
			continue
		}
		if filter == FilterOverdue && !dates.IsOverdue(t, now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ApplyCreate はストアが返した新しいTodoを追加します。
func (c *Todos) ApplyCreate(t models.Todo) { c.list.applyCreate(t) }

// ApplyUpdate は id のTodoをストアが返した内容で置き換えます。
func (c *Todos) ApplyUpdate(id int, t models.Todo) { c.list.applyUpdate(id, t) }

// ApplyDelete は id のTodoを取り除きます。
func (c *Todos) ApplyDelete(id int) { c.list.applyDelete(id) }

// ApplyDeleteOwner は ownerID が所有するTodoをすべて取り除きます。
// ストア側でユーザー削除に伴って消えたTodoを反映するために使います。
func (c *Todos) ApplyDeleteOwner(ownerID int) {
	c.list.applyDeleteWhere(func(t models.Todo) bool { return t.CreatedByUserID == ownerID })
}
