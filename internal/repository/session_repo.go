package repository

import (
	"context"
	"errors"

	"exam-portal/backend/internal/model"
	"exam-portal/backend/pkg/localstore"
)

// SessionRepository 当前会话单槽访问接口
type SessionRepository interface {
	// Get 读取当前会话；未登录时返回 (nil, nil)
	Get(ctx context.Context) (*model.Session, error)
	Set(ctx context.Context, session *model.Session) error
	// Clear 清除会话；无会话时为空操作
	Clear(ctx context.Context) error
}

// sessionRepo SessionRepository 的 localstore 实现
type sessionRepo struct {
	store *localstore.Store
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(store *localstore.Store) SessionRepository {
	return &sessionRepo{store: store}
}

func (r *sessionRepo) Get(_ context.Context) (*model.Session, error) {
	var session model.Session
	if err := r.store.Get(sessionKey, &session); err != nil {
		if errors.Is(err, localstore.ErrNoRecord) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Set(_ context.Context, session *model.Session) error {
	return r.store.Set(sessionKey, session)
}

func (r *sessionRepo) Clear(_ context.Context) error {
	return r.store.Remove(sessionKey)
}
