package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors はフィールド名 (JSON名) ごとの検証エラーメッセージです。
// 送信をブロックするだけで、ゲートウェイには届きません。
type FieldErrors map[string]string

// Add はフィールドのメッセージを設定します。既存のメッセージは上書きされます。
func (f FieldErrors) Add(field, msg string) { f[field] = msg }

// Merge は other のメッセージを取り込みます。
func (f FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		f[k] = v
	}
}

// Empty はエラーが一つもない場合に true を返します。
func (f FieldErrors) Empty() bool { return len(f) == 0 }

func (f FieldErrors) Error() string {
	return strings.Join(f.Lines(), "; ")
}

// Lines はフィールド名順に "field: message" を返します。
func (f FieldErrors) Lines() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+f[k])
	}
	return lines
}

var fieldLabels = map[string]string{
	"description":     "Description",
	"order":           "Order",
	"createdByUserId": "Created by",
	"name":            "Name",
	"email":           "Email",
}

var validate = newValidator()

// Ginと同じ binding タグを読むように設定します。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest は TodoRequest / UserRequest の binding タグを検証します。
func ValidateRequest(req any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(req)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("_", err.Error())
		return errs
	}
	for _, fe := range verrs {
		if _, exists := errs[fe.Field()]; exists {
			continue
		}
		errs.Add(fe.Field(), fieldMessage(fe))
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "email":
		return label + " must be a valid email address"
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
	}
}
