package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
)

// Seeder 演示数据播种器。仅在对应集合为空时写入，重复调用无副作用。
type Seeder struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeeder 创建 Seeder 实例
func NewSeeder(repo *repository.Repository, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger}
}

// EnsureSeedData 播种演示账号与讲师端聚合
func (s *Seeder) EnsureSeedData(ctx context.Context) error {
	if err := s.seedAccounts(ctx); err != nil {
		return err
	}
	return s.seedLecturerData(ctx)
}

func (s *Seeder) seedAccounts(ctx context.Context) error {
	accounts, err := s.repo.Account.List(ctx)
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		return nil
	}

	now := time.Now()
	demo := []model.Account{
		{
			ID:             uuid.NewString(),
			FirstName:      "John",
			LastName:       "Doe",
			Name:           "John Doe",
			StudentID:      "123456",
			Email:          "john.doe@example.com",
			Phone:          "1234567890",
			Password:       "password123",
			Role:           model.RoleStudent,
			ProfilePicture: model.DefaultProfilePicture,
			CreatedAt:      now,
		},
		{
			ID:             uuid.NewString(),
			FirstName:      "Jane",
			LastName:       "Smith",
			Name:           "Jane Smith",
			StudentID:      "654321",
			Email:          "jane.smith@example.com",
			Phone:          "0987654321",
			Password:       "password123",
			Role:           model.RoleLecturer,
			ProfilePicture: model.DefaultProfilePicture,
			CreatedAt:      now,
		},
	}

	for i := range demo {
		if err := s.repo.Account.Create(ctx, &demo[i]); err != nil {
			return err
		}
	}
	s.logger.Info("已播种演示账号", zap.Int("count", len(demo)))
	return nil
}

func (s *Seeder) seedLecturerData(ctx context.Context) error {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return err
	}
	if !data.Empty() {
		return nil
	}

	// 演示账号做聚合内的引用对象
	student, err := s.repo.Account.GetByStudentID(ctx, "123456")
	if err != nil {
		return err
	}

	now := time.Now()
	course := model.Course{
		ID:         uuid.NewString(),
		Name:       "Introduction to Computer Science",
		Instructor: "Jane Smith",
	}
	examDate := now.AddDate(0, 0, 14).Format(dateLayout)
	exam := model.Exam{
		ID:       uuid.NewString(),
		Name:     "CS Midterm Exam",
		CourseID: course.ID,
		Date:     examDate,
		Duration: 120,
		Status:   model.ExamUpcoming,
	}

	data.Courses = []model.Course{course}
	data.Exams = []model.Exam{exam}
	data.ExamSchedule = []model.ExamSchedule{{
		ID:        uuid.NewString(),
		ExamID:    exam.ID,
		Date:      examDate,
		StartTime: "09:00",
		EndTime:   "11:00",
		Location:  "Hall A",
	}}
	data.Enrollments = []model.Enrollment{{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		CourseID:     course.ID,
		EnrolledDate: now,
	}}
	data.AssessmentEnrollments = []model.AssessmentEnrollment{{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		ExamID:       exam.ID,
		CourseID:     course.ID,
		EnrolledDate: now,
	}}
	data.PlagiarismReports = []model.PlagiarismReport{{
		ID:              uuid.NewString(),
		StudentID:       student.ID,
		StudentName:     student.Name,
		ExamID:          exam.ID,
		ExamName:        exam.Name,
		CourseID:        course.ID,
		CourseName:      course.Name,
		SubmissionDate:  now,
		SimilarityScore: 12,
		Status:          model.ReportStatusCleared,
	}}
	data.Activities = []model.Activity{{
		ID:        uuid.NewString(),
		Message:   "Demo data initialized",
		Timestamp: now,
	}}

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		return err
	}
	s.logger.Info("已播种讲师端演示数据")
	return nil
}
