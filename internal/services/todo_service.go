package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/dates"
	"go-todo-client/internal/gateway"
	"go-todo-client/internal/models"
)

// TodoService はTodo関連の処理を扱います。
// 変更系の呼び出しは直列化され、同じTodoへの更新は後勝ちです。
type TodoService struct {
	deps Deps
	mu   sync.Mutex
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(deps Deps) *TodoService {
	return &TodoService{deps: deps.withDefaults()}
}

func (s *TodoService) owner() (models.User, error) {
	if s.deps.Session == nil {
		return models.User{}, ErrNoActiveUser
	}
	u, ok := s.deps.Session.Current()
	if !ok {
		return models.User{}, ErrNoActiveUser
	}
	return u, nil
}

// Load はTodoとユーザーを並行して取得し、両方揃った場合だけコレクションを置き換えます。
func (s *TodoService) Load(ctx context.Context) error {
	var (
		todos []models.Todo
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		todos, err = s.deps.Gateway.ListTodos(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.deps.Gateway.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return opError("load data", err)
	}
	s.deps.Todos.Replace(todos)
	s.deps.Users.Replace(users)
	return nil
}

// Refresh は filter に合わせてストアから再取得し、選択ユーザーのビューを返します。
// all は所有者別エンドポイント、overdue は全件取得後にローカルで絞り込みます。
func (s *TodoService) Refresh(ctx context.Context, filter collection.Filter) ([]models.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	var todos []models.Todo
	switch filter {
	case collection.FilterOverdue:
		todos, err = s.deps.Gateway.ListTodos(ctx)
	default:
		todos, err = s.deps.Gateway.ListTodosByUser(ctx, owner.ID)
	}
	if err != nil {
		return nil, opError("load todos", err)
	}
	s.deps.Todos.Replace(todos)
	return s.deps.Todos.View(filter, owner.ID, s.deps.Clock.Now()), nil
}

// View は選択ユーザーの現在のビューを返します。ストアへは問い合わせません。
func (s *TodoService) View(filter collection.Filter) ([]models.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return s.deps.Todos.View(filter, owner.ID, s.deps.Clock.Now()), nil
}

// Overdue は期限切れエンドポイントを使って選択ユーザーの期限切れTodoを返します。
// エンドポイントが存在しない (404) 場合は全件取得からローカルで導出します。
func (s *TodoService) Overdue(ctx context.Context) ([]models.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	now := s.deps.Clock.Now()
	todos, err := s.deps.Gateway.ListOverdueTodos(ctx)
	if errors.Is(err, gateway.ErrNotFound) {
		s.deps.Logger.Debug("overdue endpoint unavailable, filtering locally")
		todos, err = s.deps.Gateway.ListTodos(ctx)
	}
	if err != nil {
		return nil, opError("load overdue todos", err)
	}
	return collection.FilterTodos(todos, collection.FilterOverdue, owner.ID, now), nil
}

// ByDateRange は期間内のTodoを order 順で返します。キャッシュには反映しません。
func (s *TodoService) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Todo, error) {
	todos, err := s.deps.Gateway.ListTodosByDateRange(ctx, start, end)
	if err != nil {
		return nil, opError("load todos", err)
	}
	return collection.SortStable(todos), nil
}

// Get は指定IDのTodoを取得します。
func (s *TodoService) Get(ctx context.Context, id int) (*models.Todo, error) {
	t, err := s.deps.Gateway.GetTodo(ctx, id)
	if err != nil {
		return nil, opError("load todo", err)
	}
	return t, nil
}

// BuildRequest はフォームを検証し、送信用のリクエストを組み立てます。
// 所有者は常に ownerID に上書きされます。
func BuildRequest(form models.TodoForm, createdOn time.Time, ownerID int) (models.TodoRequest, models.FieldErrors) {
	errs := models.FieldErrors{}
	planned, err := dates.ParseFormDate(form.PlannedDate)
	if err != nil {
		errs.Add(dates.FieldPlannedDate, "Planned date must be a valid date (YYYY-MM-DD)")
	}
	due, err := dates.ParseFormDate(form.DueDate)
	if err != nil {
		errs.Add(dates.FieldDueDate, "Due date must be a valid date (YYYY-MM-DD)")
	}
	req := models.TodoRequest{
		Description:     form.Description,
		Order:           form.Order,
		CreatedByUserID: ownerID,
		PlannedDate:     planned,
		DueDate:         due,
	}
	errs.Merge(models.ValidateRequest(req))
	errs.Merge(dates.ValidateDates(createdOn, planned, due))
	return req, errs
}

// Create はTodoを作成し、成功した場合だけコレクションに追加します。
func (s *TodoService) Create(ctx context.Context, form models.TodoForm) (*models.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	req, errs := BuildRequest(form, s.deps.Clock.Now(), owner.ID)
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	created, err := s.deps.Gateway.CreateTodo(ctx, req)
	if err != nil {
		return nil, opError("create todo", err)
	}
	s.deps.Todos.ApplyCreate(*created)
	s.deps.Logger.Info("todo created", "id", created.ID, "order", created.Order)
	return created, nil
}

// Update はTodoを更新し、成功した場合だけコレクションの該当要素を置き換えます。
// 作成日はキャッシュ (なければストア) の値を検証の下限に使います。
func (s *TodoService) Update(ctx context.Context, id int, form models.TodoForm) (*models.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	existing, ok := s.deps.Todos.Find(id)
	if !ok {
		fetched, err := s.deps.Gateway.GetTodo(ctx, id)
		if err != nil {
			return nil, opError("update todo", err)
		}
		existing = *fetched
	}
	req, errs := BuildRequest(form, existing.CreatedOn, owner.ID)
	if !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := s.deps.Gateway.UpdateTodo(ctx, id, req)
	if err != nil {
		return nil, opError("update todo", err)
	}
	s.deps.Todos.ApplyUpdate(id, *updated)
	s.deps.Logger.Info("todo updated", "id", id)
	return updated, nil
}

// Delete はTodoを削除し、成功した場合だけコレクションから取り除きます。
func (s *TodoService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deps.Gateway.DeleteTodo(ctx, id); err != nil {
		return opError("delete todo", err)
	}
	s.deps.Todos.ApplyDelete(id)
	s.deps.Logger.Info("todo deleted", "id", id)
	return nil
}

// FormFromTodo は既存のTodoから編集フォームの初期値を作ります。
func FormFromTodo(t models.Todo) models.TodoForm {
	form := models.TodoForm{Description: t.Description, Order: t.Order}
	if t.PlannedDate != nil {
		form.PlannedDate = dates.NormalizeDay(*t.PlannedDate).String()
	}
	if t.DueDate != nil {
		form.DueDate = dates.NormalizeDay(*t.DueDate).String()
	}
	return form
}
