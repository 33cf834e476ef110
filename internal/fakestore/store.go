// Package fakestore はリモートストアのREST APIをメモリ上で再現します。
// テストとローカル開発用で、永続化はしません。
package fakestore

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"go-todo-client/internal/dates"
	"go-todo-client/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTodoNotFound = errors.New("todo not found")
	// ErrUnknownOwner は存在しないユーザーをTodoの所有者に指定した場合のエラーです。
	ErrUnknownOwner = errors.New("createdByUserId does not reference an existing user")
)

// Store はユーザーとTodoを保持するメモリ上のリポジトリです。
type Store struct {
	mu         sync.RWMutex
	clock      dates.Clock
	users      map[int]models.User
	todos      map[int]models.Todo
	lastUserID int
	lastTodoID int
}

// NewStore は空のストアを作成します。clock が nil の場合はシステム時刻を使います。
func NewStore(clock dates.Clock) *Store {
	if clock == nil {
		clock = dates.SystemClock{}
	}
	return &Store{
		clock: clock,
		users: map[int]models.User{},
		todos: map[int]models.Todo{},
	}
}

func (s *Store) userID() int {
	s.lastUserID++
	return s.lastUserID
}

func (s *Store) todoID() int {
	s.lastTodoID++
	return s.lastTodoID
}

// ListUsers は ID の昇順でユーザーを返します。
func (s *Store) ListUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedUsers(func(models.User) bool { return true })
}

func (s *Store) sortedUsers(keep func(models.User) bool) []models.User {
	out := []models.User{}
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b models.User) int { return a.ID - b.ID })
	return out
}

func (s *Store) FindUser(id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *Store) FindUserByEmail(email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// SearchUsers は名前に term を含むユーザーを返します (大文字小文字を区別しない)。
func (s *Store) SearchUsers(term string) []models.User {
	term = strings.ToLower(term)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedUsers(func(u models.User) bool {
		return strings.Contains(strings.ToLower(u.Name), term)
	})
}

func (s *Store) CreateUser(req models.UserRequest) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: s.userID(), Name: req.Name, Email: req.Email}
	s.users[u.ID] = u
	return u
}

func (s *Store) UpdateUser(id int, req models.UserRequest) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return models.User{}, ErrUserNotFound
	}
	u := models.User{ID: id, Name: req.Name, Email: req.Email}
	s.users[id] = u
	return u, nil
}

// DeleteUser はユーザーとそのTodoを削除します。
func (s *Store) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	for tid, t := range s.todos {
		if t.CreatedByUserID == id {
			delete(s.todos, tid)
		}
	}
	return nil
}

// ListTodos は keep を満たすTodoを ID 順で返します。並び替えはクライアントの責務です。
func (s *Store) ListTodos(keep func(models.Todo) bool) []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Todo{}
	for _, t := range s.todos {
		if keep == nil || keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b models.Todo) int { return a.ID - b.ID })
	return out
}

func (s *Store) ListOverdueTodos() []models.Todo {
	now := s.clock.Now()
	return s.ListTodos(func(t models.Todo) bool { return dates.IsOverdue(t, now) })
}

// ListTodosByDateRange は期限日が start から end の範囲 (日単位、両端を含む) にあるTodoを返します。
func (s *Store) ListTodosByDateRange(start, end time.Time) []models.Todo {
	from, to := dates.NormalizeDay(start), dates.NormalizeDay(end)
	return s.ListTodos(func(t models.Todo) bool {
		if t.DueDate == nil {
			return false
		}
		d := dates.NormalizeDay(*t.DueDate)
		return !d.Before(from) && !d.After(to)
	})
}

func (s *Store) FindTodo(id int) (models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return models.Todo{}, ErrTodoNotFound
	}
	return t, nil
}

// CreateTodo は CreatedOn を現在時刻にしてTodoを追加します。
func (s *Store) CreateTodo(req models.TodoRequest) (models.Todo, models.FieldErrors, error) {
	now := s.clock.Now()
	if errs := dates.ValidateDates(now, req.PlannedDate, req.DueDate); !errs.Empty() {
		return models.Todo{}, errs, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.CreatedByUserID]; !ok {
		return models.Todo{}, nil, ErrUnknownOwner
	}
	t := todoFromRequest(s.todoID(), now, req)
	s.todos[t.ID] = t
	return t, nil, nil
}

// UpdateTodo は CreatedOn を保ったままTodoを置き換えます。
func (s *Store) UpdateTodo(id int, req models.TodoRequest) (models.Todo, models.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.todos[id]
	if !ok {
		return models.Todo{}, nil, ErrTodoNotFound
	}
	if _, ok := s.users[req.CreatedByUserID]; !ok {
		return models.Todo{}, nil, ErrUnknownOwner
	}
	if errs := dates.ValidateDates(existing.CreatedOn, req.PlannedDate, req.DueDate); !errs.Empty() {
		return models.Todo{}, errs, nil
	}
	t := todoFromRequest(id, existing.CreatedOn, req)
	s.todos[id] = t
	return t, nil, nil
}

func (s *Store) DeleteTodo(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return ErrTodoNotFound
	}
	delete(s.todos, id)
	return nil
}

func todoFromRequest(id int, createdOn time.Time, req models.TodoRequest) models.Todo {
	return models.Todo{
		ID:              id,
		Description:     req.Description,
		Order:           req.Order,
		CreatedByUserID: req.CreatedByUserID,
		CreatedOn:       createdOn,
		PlannedDate:     req.PlannedDate,
		DueDate:         req.DueDate,
	}
}

// Counts はユーザー数、Todo数、期限切れTodo数を返します。
func (s *Store) Counts() (users, todos, overdue int) {
	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.todos {
		if dates.IsOverdue(t, now) {
			overdue++
		}
	}
	return len(s.users), len(s.todos), overdue
}

// Reset はすべてのデータを削除します。ID の採番もやり直します。
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = map[int]models.User{}
	s.todos = map[int]models.Todo{}
	s.lastUserID = 0
	s.lastTodoID = 0
}

// Seed はサンプルのユーザーとTodoを投入します。データがある場合は何もしません。
func (s *Store) Seed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.users) > 0 || len(s.todos) > 0 {
		return false
	}
	now := s.clock.Now()
	created := now.AddDate(0, 0, -14)
	at := func(days int) *time.Time {
		t := dates.NormalizeDay(now.AddDate(0, 0, days)).Time().Add(12 * time.Hour)
		return &t
	}

	seedUsers := []models.UserRequest{
		{Name: "Alice Johnson", Email: "alice@example.com"},
		{Name: "Bob Smith", Email: "bob@example.com"},
		{Name: "Carol White", Email: "carol@example.com"},
	}
	var ids []int
	for _, req := range seedUsers {
		u := models.User{ID: s.userID(), Name: req.Name, Email: req.Email}
		s.users[u.ID] = u
		ids = append(ids, u.ID)
	}

	seedTodos := []models.TodoRequest{
		{Description: "Write project proposal", Order: 1, CreatedByUserID: ids[0], PlannedDate: at(-5), DueDate: at(-2)},
		{Description: "Review pull requests", Order: 2, CreatedByUserID: ids[0], DueDate: at(0)},
		{Description: "Plan sprint retro", Order: 3, CreatedByUserID: ids[0], PlannedDate: at(2), DueDate: at(5)},
		{Description: "Update onboarding docs", Order: 1, CreatedByUserID: ids[1], DueDate: at(-1)},
		{Description: "Fix flaky tests", Order: 2, CreatedByUserID: ids[1]},
		{Description: "Prepare demo", Order: 1, CreatedByUserID: ids[2], PlannedDate: at(1), DueDate: at(3)},
	}
	for _, req := range seedTodos {
		t := todoFromRequest(s.todoID(), created, req)
		s.todos[t.ID] = t
	}
	return true
}
