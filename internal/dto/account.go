package dto

import (
	"time"

	"exam-portal/backend/internal/model"
)

// ── 账号模块 DTO ──

// AccountResponse 账号对外投影（不携带密码）
type AccountResponse struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Name           string     `json:"name"`
	StudentID      string     `json:"student_id"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Role           model.Role `json:"role"`
	ProfilePicture string     `json:"profile_picture"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UpdateProfileRequest 本人资料更新（仅更新非 nil 字段；密码与角色不经此路径）
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	ProfilePicture *string `json:"profile_picture"`
}

// UpdateAccountRequest 管理员编辑账号（角色可改，密码保持原值）
type UpdateAccountRequest struct {
	FirstName *string     `json:"first_name"`
	LastName  *string     `json:"last_name"`
	Email     *string     `json:"email"`
	Phone     *string     `json:"phone"`
	Role      *model.Role `json:"role"`
}

// ImportAccountRow Excel 花名册解析后的单行数据
type ImportAccountRow struct {
	Row       int
	FirstName string
	LastName  string
	StudentID string
	Email     string
	Phone     string
}

// ImportAccountError 导入失败明细
type ImportAccountError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportAccountsResponse 批量导入结果
type ImportAccountsResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportAccountError `json:"errors,omitempty"`
}
