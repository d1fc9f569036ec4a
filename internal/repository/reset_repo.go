package repository

import (
	"context"
	"errors"

	"exam-portal/backend/internal/model"
	"exam-portal/backend/pkg/localstore"
)

// ResetRepository 密码重置请求单槽访问接口
type ResetRepository interface {
	// Get 读取在途请求；槽位为空时返回零值记录
	Get(ctx context.Context) (*model.PasswordResetRequest, error)
	Set(ctx context.Context, req *model.PasswordResetRequest) error
	// Clear 将槽位重置为空记录（所有字段清空）
	Clear(ctx context.Context) error
}

// resetRepo ResetRepository 的 localstore 实现
type resetRepo struct {
	store *localstore.Store
}

// NewResetRepo 创建 ResetRepository 实例
func NewResetRepo(store *localstore.Store) ResetRepository {
	return &resetRepo{store: store}
}

func (r *resetRepo) Get(_ context.Context) (*model.PasswordResetRequest, error) {
	var req model.PasswordResetRequest
	if err := r.store.Get(resetKey, &req); err != nil {
		if errors.Is(err, localstore.ErrNoRecord) {
			return &model.PasswordResetRequest{}, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *resetRepo) Set(_ context.Context, req *model.PasswordResetRequest) error {
	return r.store.Set(resetKey, req)
}

func (r *resetRepo) Clear(_ context.Context) error {
	return r.store.Set(resetKey, &model.PasswordResetRequest{})
}
