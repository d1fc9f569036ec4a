package repository

import "exam-portal/backend/pkg/localstore"

// 持久化键名布局（系统唯一的"文件格式"）
const (
	accountsKey     = "users"
	sessionKey      = "currentUser"
	resetKey        = "otpData"
	lecturerDataKey = "lecturerMockData"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Account  AccountRepository
	Session  SessionRepository
	Reset    ResetRepository
	Lecturer LecturerDataRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(store *localstore.Store) *Repository {
	return &Repository{
		Account:  NewAccountRepo(store),
		Session:  NewSessionRepo(store),
		Reset:    NewResetRepo(store),
		Lecturer: NewLecturerDataRepo(store),
	}
}
