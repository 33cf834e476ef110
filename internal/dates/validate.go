package dates

import (
	"fmt"
	"time"

	"go-todo-client/internal/models"
)

const (
	FieldPlannedDate = "plannedDate"
	FieldDueDate     = "dueDate"
)

const (
	MsgPlannedAfterDue      = "Planned date must be on or before due date"
	MsgPlannedBeforeCreated = "Planned date must be on or after created date"
	MsgDueBeforeCreated     = "Due date must be on or after created date"
)

// ValidateDates は作成日・予定日・期限日の前後関係を日単位で検証します。
// 予定日に両方の違反がある場合は作成日側のメッセージが残ります。
func ValidateDates(createdOn time.Time, planned, due *time.Time) models.FieldErrors {
	errs := models.FieldErrors{}
	created := NormalizeDay(createdOn)

	if planned != nil && due != nil && NormalizeDay(*planned).After(NormalizeDay(*due)) {
		errs.Add(FieldPlannedDate, MsgPlannedAfterDue)
	}
	if planned != nil && NormalizeDay(*planned).Before(created) {
		errs.Add(FieldPlannedDate, MsgPlannedBeforeCreated)
	}
	if due != nil && NormalizeDay(*due).Before(created) {
		errs.Add(FieldDueDate, MsgDueBeforeCreated)
	}
	return errs
}

// FormDateLayout はフォームの日付入力の形式です。
const FormDateLayout = "2006-01-02"

// ParseFormDate は YYYY-MM-DD をその日のローカル 12:00 に変換します。
// 正午にしておくとUTCへの変換で日付がずれません。空文字は nil を返します。
func ParseFormDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(FormDateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
	return &t, nil
}

// FormatDate は表示用の日付文字列を返します。
func FormatDate(t *time.Time) string {
	if t == nil {
		return "Not set"
	}
	return NormalizeDay(*t).String()
}
