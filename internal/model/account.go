package model

import "time"

// Role 账号角色（枚举类型，避免自由文本角色串）
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)

// Valid 角色取值是否合法
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleLecturer
}

// DefaultProfilePicture 新账号默认头像
const DefaultProfilePicture = "https://via.placeholder.com/150"

// Account 注册账号 — 持久化于 users 集合。
// 学号与邮箱在全集合内唯一；ID 创建时分配且永不复用。
// 密码按本设计明文存储（演示系统，见设计文档），对外投影一律不携带。
type Account struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Name           string    `json:"name"` // 派生：FirstName + " " + LastName
	StudentID      string    `json:"studentId"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Password       string    `json:"password"`
	Role           Role      `json:"userType"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}
