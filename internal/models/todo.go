// Package modelsはリモートストアとやり取りするUserとTodoを定義します。
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Todo はリモートストアが返すTodoの正規表現です。
// ID と CreatedOn はストア側で採番・設定されます。
type Todo struct {
	ID              int        `json:"id" yaml:"id"`
	Description     string     `json:"description" yaml:"description"`
	Order           int        `json:"order" yaml:"order"`                     // 表示順 (1以上、重複あり)
	CreatedByUserID int        `json:"createdByUserId" yaml:"createdByUserId"` // 所有者のユーザーID
	CreatedOn       time.Time  `json:"createdOn" yaml:"createdOn"`
	PlannedDate     *time.Time `json:"plannedDate" yaml:"plannedDate"`
	DueDate         *time.Time `json:"dueDate" yaml:"dueDate"`
}

// UnmarshalJSON はタイムゾーンのない日時 ("2024-01-10T12:00:00") もローカル時刻として受け付けます。
func (t *Todo) UnmarshalJSON(data []byte) error {
	type plain Todo
	aux := struct {
		*plain
		CreatedOn   string  `json:"createdOn"`
		PlannedDate *string `json:"plannedDate"`
		DueDate     *string `json:"dueDate"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	t.CreatedOn = time.Time{}
	if aux.CreatedOn != "" {
		if t.CreatedOn, err = ParseTimestamp(aux.CreatedOn); err != nil {
			return fmt.Errorf("createdOn: %w", err)
		}
	}
	if t.PlannedDate, err = parseOptional(aux.PlannedDate); err != nil {
		return fmt.Errorf("plannedDate: %w", err)
	}
	if t.DueDate, err = parseOptional(aux.DueDate); err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	return nil
}

// ゾーンなしの形式はローカル時刻として解釈します。小数秒は省略可能です。
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

// ParseTimestamp はRFC3339、またはゾーンのない日時・日付を解析します。
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return ts, nil
	}
	for _, layout := range localLayouts {
		if ts, lerr := time.ParseInLocation(layout, s, time.Local); lerr == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

func parseOptional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(*s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// TodoRequest は作成・更新時にストアへ送るペイロードです。
// bindingタグはクライアント側の検証とfakestoreのGinバインドの両方で使われます。
type TodoRequest struct {
	Description     string     `json:"description" binding:"required,max=500"`
	Order           int        `json:"order" binding:"min=1"`
	CreatedByUserID int        `json:"createdByUserId" binding:"required"`
	PlannedDate     *time.Time `json:"plannedDate"`
	DueDate         *time.Time `json:"dueDate"`
}

// TodoForm は編集フォームの入力値です。日付は YYYY-MM-DD 形式 (空文字は未設定)。
// 所有者は持たず、送信時に常にセッションのユーザーが設定されます。
type TodoForm struct {
	Description string
	Order       int
	PlannedDate string
	DueDate     string
}

// GetID は collection パッケージのキーとして使われます。
func (t Todo) GetID() int { return t.ID }
