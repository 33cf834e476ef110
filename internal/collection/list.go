// Package collection はリモートストアから取得したTodoとUserのキャッシュを保持します。
// キャッシュは常に並び順を保った状態で、作成・更新・削除の結果をその場で反映します。
package collection

import (
	"slices"
	"sync"
)

type entity interface {
	GetID() int
}

// list は cmp で安定ソートされた状態を保つ正規コレクションです。
// 変更は新しいスライスを作ってから差し替えるので、途中の状態は見えません。
type list[T entity] struct {
	mu    sync.RWMutex
	items []T
	cmp   func(a, b T) int
}

func newList[T entity](cmp func(a, b T) int) *list[T] {
	return &list[T]{items: []T{}, cmp: cmp}
}

func (l *list[T]) sorted(items []T) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, l.cmp)
	return out
}

func (l *list[T]) replace(items []T) {
	next := l.sorted(items)
	l.mu.Lock()
	l.items = next
	l.mu.Unlock()
}

func (l *list[T]) snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *list[T]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *list[T]) find(id int) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (l *list[T]) applyCreate(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = l.sorted(append(slices.Clone(l.items), item))
}

// ローカルに存在しない id は作成として扱います (キャッシュが古い場合)。
func (l *list[T]) applyUpdate(id int, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := slices.Clone(l.items)
	idx := slices.IndexFunc(next, func(x T) bool { return x.GetID() == id })
	if idx < 0 {
		next = append(next, item)
	} else {
		next[idx] = item
	}
	l.items = l.sorted(next)
}

func (l *list[T]) applyDelete(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.DeleteFunc(slices.Clone(l.items), func(x T) bool { return x.GetID() == id })
}

func (l *list[T]) applyDeleteWhere(match func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.DeleteFunc(slices.Clone(l.items), match)
}
