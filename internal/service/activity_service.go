package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
)

// 动态保留上限，超出后丢弃最旧的
const maxActivities = 50

// ActivityService 操作动态业务接口
type ActivityService interface {
	Record(ctx context.Context, message string) error
	// List 按时间倒序返回最近 limit 条；limit <= 0 返回全部
	List(ctx context.Context, limit int) ([]model.Activity, error)
}

type activityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityService 创建 ActivityService 实例
func NewActivityService(repo *repository.Repository, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, logger: logger}
}

func (s *activityService) Record(ctx context.Context, message string) error {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return err
	}
	appendActivity(data, message)
	return s.repo.Lecturer.Save(ctx, data)
}

func (s *activityService) List(ctx context.Context, limit int) ([]model.Activity, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	activities := make([]model.Activity, len(data.Activities))
	copy(activities, data.Activities)
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// appendActivity 向聚合追加一条动态；由调用方负责保存
func appendActivity(data *model.LecturerData, message string) {
	data.Activities = append(data.Activities, model.Activity{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now(),
	})
	if len(data.Activities) > maxActivities {
		data.Activities = data.Activities[len(data.Activities)-maxActivities:]
	}
}
