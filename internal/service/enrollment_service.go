package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
	apperrors "exam-portal/backend/pkg/errors"
)

var (
	ErrAlreadyEnrolled     = errors.New("已选过该课程")
	ErrAlreadyRegistered   = errors.New("已报名该考试")
	ErrNotEnrolledInCourse = errors.New("未选该考试所属课程，无法报名")
	ErrEnrollmentNotFound  = errors.New("选课记录不存在")
)

// EnrollmentService 选课与考试报名业务接口
type EnrollmentService interface {
	Enroll(ctx context.Context, req *dto.EnrollRequest) (*model.Enrollment, error)
	// Unenroll 退课，同时退掉该课程下的考试报名
	Unenroll(ctx context.Context, enrollmentID string) error
	EnrollAssessment(ctx context.Context, req *dto.AssessmentEnrollRequest) (*model.AssessmentEnrollment, error)
	// ListByCourse / ListByStudent 按选课时间倒序返回展示行
	ListByCourse(ctx context.Context, courseID string) ([]dto.EnrollmentView, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.EnrollmentView, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

func (s *enrollmentService) Enroll(ctx context.Context, req *dto.EnrollRequest) (*model.Enrollment, error) {
	acct, err := s.repo.Account.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !courseExists(data, req.CourseID) {
		return nil, ErrCourseNotFound
	}
	for _, e := range data.Enrollments {
		if e.StudentID == req.StudentID && e.CourseID == req.CourseID {
			return nil, ErrAlreadyEnrolled
		}
	}

	enrollment := model.Enrollment{
		ID:           uuid.NewString(),
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		EnrolledDate: time.Now(),
	}
	data.Enrollments = append(data.Enrollments, enrollment)
	appendActivity(data, fmt.Sprintf("Enrolled %s in course", acct.Name))

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("保存选课记录失败", zap.Error(err))
		return nil, err
	}
	return &enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, enrollmentID string) error {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return err
	}

	var removed *model.Enrollment
	kept := data.Enrollments[:0]
	for i := range data.Enrollments {
		if data.Enrollments[i].ID == enrollmentID {
			e := data.Enrollments[i]
			removed = &e
			continue
		}
		kept = append(kept, data.Enrollments[i])
	}
	if removed == nil {
		return ErrEnrollmentNotFound
	}
	data.Enrollments = kept

	// 课程都退了，课下的考试报名一并退掉
	keptAE := data.AssessmentEnrollments[:0]
	for _, e := range data.AssessmentEnrollments {
		if e.StudentID == removed.StudentID && e.CourseID == removed.CourseID {
			continue
		}
		keptAE = append(keptAE, e)
	}
	data.AssessmentEnrollments = keptAE

	appendActivity(data, "Removed enrollment")

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("退课失败", zap.String("id", enrollmentID), zap.Error(err))
		return err
	}
	return nil
}

func (s *enrollmentService) EnrollAssessment(ctx context.Context, req *dto.AssessmentEnrollRequest) (*model.AssessmentEnrollment, error) {
	acct, err := s.repo.Account.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	exam := findExam(data, req.ExamID)
	if exam == nil {
		return nil, ErrExamNotFound
	}

	// 须先选该考试所属课程
	enrolled := false
	for _, e := range data.Enrollments {
		if e.StudentID == req.StudentID && e.CourseID == exam.CourseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, ErrNotEnrolledInCourse
	}

	for _, e := range data.AssessmentEnrollments {
		if e.StudentID == req.StudentID && e.ExamID == req.ExamID {
			return nil, ErrAlreadyRegistered
		}
	}

	enrollment := model.AssessmentEnrollment{
		ID:           uuid.NewString(),
		StudentID:    req.StudentID,
		ExamID:       req.ExamID,
		CourseID:     exam.CourseID,
		EnrolledDate: time.Now(),
	}
	data.AssessmentEnrollments = append(data.AssessmentEnrollments, enrollment)
	appendActivity(data, fmt.Sprintf("Registered %s for exam: %s", acct.Name, exam.Name))

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("保存考试报名失败", zap.Error(err))
		return nil, err
	}
	return &enrollment, nil
}

func (s *enrollmentService) ListByCourse(ctx context.Context, courseID string) ([]dto.EnrollmentView, error) {
	return s.listViews(ctx, func(e *model.Enrollment) bool { return e.CourseID == courseID })
}

func (s *enrollmentService) ListByStudent(ctx context.Context, studentID string) ([]dto.EnrollmentView, error) {
	return s.listViews(ctx, func(e *model.Enrollment) bool { return e.StudentID == studentID })
}

func (s *enrollmentService) listViews(ctx context.Context, match func(*model.Enrollment) bool) ([]dto.EnrollmentView, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.repo.Account.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(accounts))
	for i := range accounts {
		names[accounts[i].ID] = accounts[i].Name
	}
	courseNames := make(map[string]string, len(data.Courses))
	for i := range data.Courses {
		courseNames[data.Courses[i].ID] = data.Courses[i].Name
	}

	views := make([]dto.EnrollmentView, 0)
	for i := range data.Enrollments {
		if !match(&data.Enrollments[i]) {
			continue
		}
		views = append(views, dto.EnrollmentView{
			Enrollment:  data.Enrollments[i],
			StudentName: names[data.Enrollments[i].StudentID],
			CourseName:  courseNames[data.Enrollments[i].CourseID],
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].EnrolledDate.After(views[j].EnrolledDate)
	})
	return views, nil
}
