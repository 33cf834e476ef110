package collection

import (
	"cmp"

	"go-todo-client/internal/models"
)

func byID(a, b models.User) int { return cmp.Compare(a.ID, b.ID) }

// Users はユーザーの正規コレクションです。常に ID の昇順です。
type Users struct {
	list *list[models.User]
}

// NewUsers は空のコレクションを作成します。
func NewUsers() *Users {
	return &Users{list: newList(byID)}
}

// Replace は取得結果でコレクション全体を置き換えます。
func (c *Users) Replace(users []models.User) { c.list.replace(users) }

// All は ID 順のコピーを返します。
func (c *Users) All() []models.User { return c.list.snapshot() }

// Len は件数を返します。
func (c *Users) Len() int { return c.list.len() }

// Find は id のユーザーを返します。
func (c *Users) Find(id int) (models.User, bool) { return c.list.find(id) }

// NameOf はユーザー名を返します。見つからない場合は "Unknown User" です。
func (c *Users) NameOf(id int) string {
	if u, ok := c.list.find(id); ok {
		return u.Name
	}
	return "Unknown User"
}

// ApplyCreate はストアが返した新しいユーザーを追加します。
func (c *Users) ApplyCreate(u models.User) { c.list.applyCreate(u) }

// ApplyUpdate は id のユーザーを置き換えます。
func (c *Users) ApplyUpdate(id int, u models.User) { c.list.applyUpdate(id, u) }

// ApplyDelete は id のユーザーを取り除きます。
func (c *Users) ApplyDelete(id int) { c.list.applyDelete(id) }
