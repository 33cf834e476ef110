package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/models"
)

// RecentLimit はダッシュボードに表示する件数です。
const RecentLimit = 5

// Dashboard は選択ユーザーの集計です。
type Dashboard struct {
	User              models.User
	TotalTodos        int
	TotalUsers        int
	OverdueTodos      int
	StoreOverdueTodos int // 全ユーザー分 (期限切れエンドポイントの件数)
	Status            models.DataStatus
	RecentTodos       []models.Todo
	RecentUsers       []models.User
}

// DashboardService はダッシュボードとストアの状態管理を扱います。
type DashboardService struct {
	deps Deps
}

func NewDashboardService(deps Deps) *DashboardService {
	return &DashboardService{deps: deps.withDefaults()}
}

// Load は4つの取得を並行して行い、すべて成功した場合だけ集計を返します。
func (s *DashboardService) Load(ctx context.Context) (*Dashboard, error) {
	if s.deps.Session == nil {
		return nil, ErrNoActiveUser
	}
	owner, ok := s.deps.Session.Current()
	if !ok {
		return nil, ErrNoActiveUser
	}

	var (
		todos   []models.Todo
		users   []models.User
		overdue []models.Todo
		status  models.DataStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		todos, err = s.deps.Gateway.ListTodos(gctx)
		return
	})
	g.Go(func() (err error) {
		users, err = s.deps.Gateway.ListUsers(gctx)
		return
	})
	g.Go(func() (err error) {
		overdue, err = s.deps.Gateway.ListOverdueTodos(gctx)
		return
	})
	g.Go(func() (err error) {
		status, err = s.deps.Gateway.Status(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, opError("load dashboard data", err)
	}

	s.deps.Todos.Replace(todos)
	s.deps.Users.Replace(users)

	now := s.deps.Clock.Now()
	mine := s.deps.Todos.View(collection.FilterAll, owner.ID, now)
	mineOverdue := s.deps.Todos.View(collection.FilterOverdue, owner.ID, now)
	allUsers := s.deps.Users.All()

	return &Dashboard{
		User:              owner,
		TotalTodos:        len(mine),
		TotalUsers:        len(allUsers),
		OverdueTodos:      len(mineOverdue),
		StoreOverdueTodos: len(overdue),
		Status:            status,
		RecentTodos:       mine[:min(RecentLimit, len(mine))],
		RecentUsers:       allUsers[:min(RecentLimit, len(allUsers))],
	}, nil
}

// Summary はストアの集計を返します。
func (s *DashboardService) Summary(ctx context.Context) (models.DataSummary, error) {
	summary, err := s.deps.Gateway.Summary(ctx)
	if err != nil {
		return nil, opError("load summary", err)
	}
	return summary, nil
}

// Status はストアの状態を返します。
func (s *DashboardService) Status(ctx context.Context) (models.DataStatus, error) {
	status, err := s.deps.Gateway.Status(ctx)
	if err != nil {
		return nil, opError("load status", err)
	}
	return status, nil
}

// Initialize はサンプルデータを投入します。
func (s *DashboardService) Initialize(ctx context.Context) error {
	if err := s.deps.Gateway.Initialize(ctx); err != nil {
		return opError("initialize data", err)
	}
	s.deps.Logger.Info("sample data initialized")
	return nil
}

// Reset はストアの全データを削除し、キャッシュも空にします。
func (s *DashboardService) Reset(ctx context.Context) error {
	if err := s.deps.Gateway.Reset(ctx); err != nil {
		return opError("reset data", err)
	}
	s.deps.Todos.Replace(nil)
	s.deps.Users.Replace(nil)
	s.deps.Logger.Info("all data reset")
	return nil
}
