package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
	apperrors "exam-portal/backend/pkg/errors"
)

var ErrCourseNotFound = errors.New("课程不存在")

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error)
	Get(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*model.Course, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidation("name", "课程名不能为空")
	}
	if strings.TrimSpace(req.Instructor) == "" {
		return nil, apperrors.NewValidation("instructor", "授课教师不能为空")
	}

	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	course := model.Course{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Instructor: req.Instructor,
	}
	data.Courses = append(data.Courses, course)
	appendActivity(data, "Created course: "+course.Name)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("保存课程失败", zap.Error(err))
		return nil, err
	}
	return &course, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*model.Course, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range data.Courses {
		if data.Courses[i].ID == id {
			course := data.Courses[i]
			return &course, nil
		}
	}
	return nil, ErrCourseNotFound
}

func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}
	return data.Courses, nil
}
