package models

// User はリモートストアのユーザーです。
type User struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// UserRequest はユーザー作成・更新時のペイロードです。
type UserRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=150"`
}

// GetID は collection パッケージのキーとして使われます。
func (u User) GetID() int { return u.ID }

// DataStatus はストアの状態 (GET /Data/status) です。中身は表示のみに使います。
type DataStatus map[string]any

// DataSummary はストアの集計 (GET /Data/summary) です。
type DataSummary map[string]any
