// Package session は選択中のユーザーを保持し、永続ストレージに保存します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"go-todo-client/internal/logging"
	"go-todo-client/internal/models"
)

// StorageKey は選択中のユーザーを保存するキーです。
const StorageKey = "selectedUser"

// Holder はセッション中の選択ユーザーを最大一人保持します。
// グローバルに持たず、必要なコンポーネントへポインタで渡します。
type Holder struct {
	mu     sync.RWMutex
	store  Storage
	user   *models.User
	logger *log.Logger
}

func NewHolder(store Storage, logger *log.Logger) *Holder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Holder{store: store, logger: logger}
}

// Select はユーザーを選択し、ストレージの値を上書きします。
// 保存に失敗してもメモリ上の選択は有効です。
func (h *Holder) Select(ctx context.Context, user models.User) error {
	h.mu.Lock()
	u := user
	h.user = &u
	h.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("could not encode selected user: %w", err)
	}
	if err := h.store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("could not persist selected user: %w", err)
	}
	return nil
}

// Clear はメモリとストレージの両方から選択を外します。
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.user = nil
	h.mu.Unlock()

	if err := h.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("could not remove selected user: %w", err)
	}
	return nil
}

// Restore は保存された値を読み込みます。壊れた値は破棄し、エラーは返しません。
// パースできた値は中身を検証せずにそのまま使います。
func (h *Holder) Restore(ctx context.Context) (models.User, bool) {
	raw, ok, err := h.store.Get(ctx, StorageKey)
	if errors.Is(err, ErrCorrupt) {
		h.discard(ctx, err)
		return models.User{}, false
	}
	if err != nil {
		h.logger.Warn("could not read stored user", "err", err)
		return models.User{}, false
	}
	if !ok {
		return models.User{}, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		h.discard(ctx, err)
		return models.User{}, false
	}

	h.mu.Lock()
	h.user = &user
	h.mu.Unlock()
	return user, true
}

func (h *Holder) discard(ctx context.Context, cause error) {
	h.logger.Debug("discarding corrupt stored user", "err", cause)
	if err := h.store.Delete(ctx, StorageKey); err != nil {
		h.logger.Debug("could not remove corrupt stored user", "err", err)
	}
	h.mu.Lock()
	h.user = nil
	h.mu.Unlock()
}

// Current は選択中のユーザーを返します。
func (h *Holder) Current() (models.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return models.User{}, false
	}
	return *h.user, true
}
