package service

import (
	"go.uber.org/zap"

	"exam-portal/backend/config"
	"exam-portal/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Account    AccountService
	Auth       AuthService
	Reset      PasswordResetService
	Course     CourseService
	Exam       ExamService
	Enrollment EnrollmentService
	Report     ReportService
	Activity   ActivityService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	account := NewAccountService(cfg, repo, logger)
	return &Service{
		Account:    account,
		Auth:       NewAuthService(account, repo, logger),
		Reset:      NewPasswordResetService(cfg, repo, logger),
		Course:     NewCourseService(repo, logger),
		Exam:       NewExamService(repo, logger),
		Enrollment: NewEnrollmentService(repo, logger),
		Report:     NewReportService(repo, logger),
		Activity:   NewActivityService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
