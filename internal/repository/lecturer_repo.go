package repository

import (
	"context"
	"errors"

	"exam-portal/backend/internal/model"
	"exam-portal/backend/pkg/localstore"
)

// LecturerDataRepository 讲师端聚合访问接口。
// 聚合整体读、整体写：业务层在一次操作内完成读取-修改-保存，
// 与单线程事件驱动的执行模型配合保证读改写原子性。
type LecturerDataRepository interface {
	// Get 读取聚合；尚未初始化时返回空聚合
	Get(ctx context.Context) (*model.LecturerData, error)
	Save(ctx context.Context, data *model.LecturerData) error
}

// lecturerDataRepo LecturerDataRepository 的 localstore 实现
type lecturerDataRepo struct {
	store *localstore.Store
}

// NewLecturerDataRepo 创建 LecturerDataRepository 实例
func NewLecturerDataRepo(store *localstore.Store) LecturerDataRepository {
	return &lecturerDataRepo{store: store}
}

func (r *lecturerDataRepo) Get(_ context.Context) (*model.LecturerData, error) {
	var data model.LecturerData
	if err := r.store.Get(lecturerDataKey, &data); err != nil {
		if errors.Is(err, localstore.ErrNoRecord) {
			return &model.LecturerData{}, nil
		}
		return nil, err
	}
	return &data, nil
}

func (r *lecturerDataRepo) Save(_ context.Context, data *model.LecturerData) error {
	return r.store.Set(lecturerDataKey, data)
}
