package service

import (
	"context"
	"errors"
	"math/rand"
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
	ErrReportNotFound       = errors.New("报告不存在")
	ErrResubmissionNotFound = errors.New("重交申请不存在")
	ErrAlreadyReviewed      = errors.New("该申请已审批过")
)

// 相似度阈值：≥40 标记、≥20 待审、其余通过
const (
	flagThreshold   = 40
	reviewThreshold = 20
)

// ReportService 抄袭报告与重交申请业务接口。
// 检测为演示实现：相似度为随机模拟值，不做真实文本比对。
type ReportService interface {
	GenerateReport(ctx context.Context, studentID, examID string) (*model.PlagiarismReport, error)
	GetReport(ctx context.Context, id string) (*model.PlagiarismReport, error)
	// ListReports 按相似度降序返回全部报告
	ListReports(ctx context.Context) ([]model.PlagiarismReport, error)
	// UpdateReportStatus 人工复核后改写审查结论
	UpdateReportStatus(ctx context.Context, id, status string) (*model.PlagiarismReport, error)
	RequestResubmission(ctx context.Context, studentID, examID, reason string) (*model.ResubmissionRequest, error)
	ReviewResubmission(ctx context.Context, id string, req *dto.ReviewResubmissionRequest) (*model.ResubmissionRequest, error)
	ListResubmissions(ctx context.Context) ([]model.ResubmissionRequest, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) GenerateReport(ctx context.Context, studentID, examID string) (*model.PlagiarismReport, error) {
	acct, err := s.repo.Account.GetByID(ctx, studentID)
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
	exam := findExam(data, examID)
	if exam == nil {
		return nil, ErrExamNotFound
	}

	var courseName string
	for i := range data.Courses {
		if data.Courses[i].ID == exam.CourseID {
			courseName = data.Courses[i].Name
			break
		}
	}

	score := rand.Intn(101)
	report := model.PlagiarismReport{
		ID:              uuid.NewString(),
		StudentID:       studentID,
		StudentName:     acct.Name,
		ExamID:          examID,
		ExamName:        exam.Name,
		CourseID:        exam.CourseID,
		CourseName:      courseName,
		SubmissionDate:  time.Now(),
		SimilarityScore: score,
		Status:          statusForScore(score),
	}
	if score >= reviewThreshold {
		report.MatchedSources = []model.MatchedSource{
			{Source: "Internet Source", MatchPercentage: score / 2},
			{Source: "Student Papers", MatchPercentage: score - score/2},
		}
	}

	data.PlagiarismReports = append(data.PlagiarismReports, report)
	appendActivity(data, "Generated plagiarism report for "+acct.Name)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("保存抄袭报告失败", zap.Error(err))
		return nil, err
	}
	return &report, nil
}

func statusForScore(score int) string {
	switch {
	case score >= flagThreshold:
		return model.ReportStatusFlagged
	case score >= reviewThreshold:
		return model.ReportStatusReview
	default:
		return model.ReportStatusCleared
	}
}

func (s *reportService) GetReport(ctx context.Context, id string) (*model.PlagiarismReport, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range data.PlagiarismReports {
		if data.PlagiarismReports[i].ID == id {
			report := data.PlagiarismReports[i]
			return &report, nil
		}
	}
	return nil, ErrReportNotFound
}

func (s *reportService) ListReports(ctx context.Context) ([]model.PlagiarismReport, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]model.PlagiarismReport, len(data.PlagiarismReports))
	copy(reports, data.PlagiarismReports)
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].SimilarityScore > reports[j].SimilarityScore
	})
	return reports, nil
}

func (s *reportService) UpdateReportStatus(ctx context.Context, id, status string) (*model.PlagiarismReport, error) {
	switch status {
	case model.ReportStatusCleared, model.ReportStatusReview, model.ReportStatusFlagged:
	default:
		return nil, apperrors.NewValidation("status", "审查状态取值不合法")
	}

	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	var report *model.PlagiarismReport
	for i := range data.PlagiarismReports {
		if data.PlagiarismReports[i].ID == id {
			report = &data.PlagiarismReports[i]
			break
		}
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	report.Status = status
	appendActivity(data, "Updated report status for "+report.StudentName)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("更新报告状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	updated := *report
	return &updated, nil
}

func (s *reportService) RequestResubmission(ctx context.Context, studentID, examID, reason string) (*model.ResubmissionRequest, error) {
	if reason == "" {
		return nil, apperrors.NewValidation("reason", "申请理由不能为空")
	}

	acct, err := s.repo.Account.GetByID(ctx, studentID)
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
	exam := findExam(data, examID)
	if exam == nil {
		return nil, ErrExamNotFound
	}

	request := model.ResubmissionRequest{
		ID:           uuid.NewString(),
		StudentID:    studentID,
		StudentName:  acct.Name,
		ExamID:       examID,
		ExamName:     exam.Name,
		SubmissionID: uuid.NewString(),
		RequestDate:  time.Now(),
		Reason:       reason,
		Status:       model.ResubmissionPending,
	}
	data.ResubmissionRequests = append(data.ResubmissionRequests, request)
	appendActivity(data, "Resubmission requested by "+acct.Name)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("保存重交申请失败", zap.Error(err))
		return nil, err
	}
	return &request, nil
}

func (s *reportService) ReviewResubmission(ctx context.Context, id string, req *dto.ReviewResubmissionRequest) (*model.ResubmissionRequest, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	var request *model.ResubmissionRequest
	for i := range data.ResubmissionRequests {
		if data.ResubmissionRequests[i].ID == id {
			request = &data.ResubmissionRequests[i]
			break
		}
	}
	if request == nil {
		return nil, ErrResubmissionNotFound
	}
	// 只有待审申请可以流转
	if request.Status != model.ResubmissionPending {
		return nil, ErrAlreadyReviewed
	}

	if req.Approve {
		request.Status = model.ResubmissionApproved
	} else {
		request.Status = model.ResubmissionRejected
	}
	now := time.Now()
	request.ResponseDate = &now
	request.ResponseMessage = &req.Message
	request.ReviewedBy = &req.ReviewedBy

	verb := "Approved"
	if !req.Approve {
		verb = "Rejected"
	}
	appendActivity(data, verb+" resubmission request from "+request.StudentName)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("审批重交申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	reviewed := *request
	return &reviewed, nil
}

func (s *reportService) ListResubmissions(ctx context.Context) ([]model.ResubmissionRequest, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}
	return data.ResubmissionRequests, nil
}
