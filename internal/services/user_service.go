package services

import (
	"context"
	"strings"
	"sync"

	"go-todo-client/internal/models"
)

// UserService はユーザー関連の処理を扱います。一覧は常に ID 順です。
type UserService struct {
	deps Deps
	mu   sync.Mutex
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(deps Deps) *UserService {
	return &UserService{deps: deps.withDefaults()}
}

// Load は全ユーザーを取得してコレクションを置き換えます。
func (s *UserService) Load(ctx context.Context) ([]models.User, error) {
	users, err := s.deps.Gateway.ListUsers(ctx)
	if err != nil {
		return nil, opError("load users", err)
	}
	s.deps.Users.Replace(users)
	return s.deps.Users.All(), nil
}

// Search は名前で検索します。空白だけの検索語は全件取得と同じです。
func (s *UserService) Search(ctx context.Context, term string) ([]models.User, error) {
	if strings.TrimSpace(term) == "" {
		return s.Load(ctx)
	}
	users, err := s.deps.Gateway.SearchUsers(ctx, term)
	if err != nil {
		return nil, opError("search users", err)
	}
	s.deps.Users.Replace(users)
	return s.deps.Users.All(), nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	u, err := s.deps.Gateway.GetUser(ctx, id)
	if err != nil {
		return nil, opError("load user", err)
	}
	return u, nil
}

func (s *UserService) ByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.deps.Gateway.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, opError("load user", err)
	}
	return u, nil
}

// Create はユーザーを作成し、成功した場合だけコレクションに追加します。
func (s *UserService) Create(ctx context.Context, req models.UserRequest) (*models.User, error) {
	if errs := models.ValidateRequest(req); !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created, err := s.deps.Gateway.CreateUser(ctx, req)
	if err != nil {
		return nil, opError("create user", err)
	}
	s.deps.Users.ApplyCreate(*created)
	s.deps.Logger.Info("user created", "id", created.ID)
	return created, nil
}

// Update はユーザーを更新します。選択中のユーザーであればセッションの値も更新します。
func (s *UserService) Update(ctx context.Context, id int, req models.UserRequest) (*models.User, error) {
	if errs := models.ValidateRequest(req); !errs.Empty() {
		return nil, &ValidationError{Fields: errs}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := s.deps.Gateway.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, opError("update user", err)
	}
	s.deps.Users.ApplyUpdate(id, *updated)
	if s.deps.Session != nil {
		if current, ok := s.deps.Session.Current(); ok && current.ID == id {
			if err := s.deps.Session.Select(ctx, *updated); err != nil {
				s.deps.Logger.Warn("could not refresh selected user", "err", err)
			}
		}
	}
	s.deps.Logger.Info("user updated", "id", id)
	return updated, nil
}

// Delete はユーザーを削除し、成功した場合だけコレクションから取り除きます。
func (s *UserService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deps.Gateway.DeleteUser(ctx, id); err != nil {
		return opError("delete user", err)
	}
	s.deps.Users.ApplyDelete(id)
	s.deps.Todos.ApplyDeleteOwner(id)
	s.deps.Logger.Info("user deleted", "id", id)
	return nil
}

// Select はユーザーをストアから取得して選択します。
func (s *UserService) Select(ctx context.Context, id int) (*models.User, error) {
	if s.deps.Session == nil {
		return nil, ErrNoActiveUser
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Session.Select(ctx, *u); err != nil {
		return nil, opError("select user", err)
	}
	return u, nil
}
