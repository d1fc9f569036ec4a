package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"exam-portal/backend/config"
	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/repository"
	"exam-portal/backend/pkg/localstore"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			ResetCodeTTL:      10 * time.Minute,
			MinPasswordLength: 6,
		},
	}
}

func setupTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()

	store, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("打开测试存储失败: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	repo := repository.NewRepository(store)
	svc := NewService(testConfig(), repo, zap.NewNop())
	return svc, repo
}

func registerTestStudent(t *testing.T, svc *Service, studentID, email string) *dto.AccountResponse {
	t.Helper()

	acct, err := svc.Account.Register(context.Background(), &dto.RegisterRequest{
		FirstName: "张",
		LastName:  "三",
		StudentID: studentID,
		Email:     email,
		Phone:     "13800138000",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("注册测试账号失败: %v", err)
	}
	return acct
}

func registerTestLecturer(t *testing.T, svc *Service, studentID, email string) *dto.AccountResponse {
	t.Helper()

	acct, err := svc.Account.RegisterLecturer(context.Background(), &dto.RegisterRequest{
		FirstName: "李",
		LastName:  "老师",
		StudentID: studentID,
		Email:     email,
		Phone:     "13900139000",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("注册测试讲师失败: %v", err)
	}
	return acct
}

func createTestCourse(t *testing.T, svc *Service, name string) string {
	t.Helper()

	course, err := svc.Course.Create(context.Background(), &dto.CreateCourseRequest{
		Name:       name,
		Instructor: "李老师",
	})
	if err != nil {
		t.Fatalf("创建测试课程失败: %v", err)
	}
	return course.ID
}

func createTestExam(t *testing.T, svc *Service, courseID, name, date string) string {
	t.Helper()

	exam, err := svc.Exam.Create(context.Background(), &dto.CreateExamRequest{
		Name:      name,
		CourseID:  courseID,
		Date:      date,
		StartTime: "09:00",
		Duration:  120,
		Location:  "一号楼 101",
	})
	if err != nil {
		t.Fatalf("创建测试考试失败: %v", err)
	}
	return exam.ID
}
