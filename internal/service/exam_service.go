package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
	apperrors "exam-portal/backend/pkg/errors"
)

var ErrExamNotFound = errors.New("考试不存在")

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ExamService 考试业务接口 — 考试与场次安排成对维护
type ExamService interface {
	Create(ctx context.Context, req *dto.CreateExamRequest) (*model.Exam, error)
	Update(ctx context.Context, id string, req *dto.UpdateExamRequest) (*model.Exam, error)
	// Delete 删除考试并级联清理其场次安排与应试记录
	Delete(ctx context.Context, id string) error
	GetDetails(ctx context.Context, id string) (*dto.ExamDetails, error)
	List(ctx context.Context) ([]model.Exam, error)
	// ListUpcoming 仅返回未开始的考试，按日期升序
	ListUpcoming(ctx context.Context) ([]model.Exam, error)
	// MarkCompleted 将已结束的考试置为 completed
	MarkCompleted(ctx context.Context, id string) error
}

type examService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, logger *zap.Logger) ExamService {
	return &examService{repo: repo, logger: logger}
}

func (s *examService) Create(ctx context.Context, req *dto.CreateExamRequest) (*model.Exam, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidation("name", "考试名不能为空")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, apperrors.NewValidation("date", "日期格式应为 YYYY-MM-DD")
	}
	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return nil, apperrors.NewValidation("start_time", "开始时间格式应为 HH:MM")
	}
	if req.Duration <= 0 {
		return nil, apperrors.NewValidation("duration", "考试时长必须为正数")
	}

	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !courseExists(data, req.CourseID) {
		return nil, ErrCourseNotFound
	}

	exam := model.Exam{
		ID:       uuid.NewString(),
		Name:     req.Name,
		CourseID: req.CourseID,
		Date:     req.Date,
		Duration: req.Duration,
		Status:   model.ExamUpcoming,
	}
	end := start.Add(time.Duration(req.Duration) * time.Minute)
	schedule := model.ExamSchedule{
		ID:        uuid.NewString(),
		ExamID:    exam.ID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   end.Format(timeLayout),
		Location:  req.Location,
	}

	data.Exams = append(data.Exams, exam)
	data.ExamSchedule = append(data.ExamSchedule, schedule)
	appendActivity(data, fmt.Sprintf("Scheduled exam: %s on %s", exam.Name, exam.Date))

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("保存考试失败", zap.Error(err))
		return nil, err
	}
	return &exam, nil
}

func (s *examService) Update(ctx context.Context, id string, req *dto.UpdateExamRequest) (*model.Exam, error) {
	if req.Date != nil {
		if _, err := time.Parse(dateLayout, *req.Date); err != nil {
			return nil, apperrors.NewValidation("date", "日期格式应为 YYYY-MM-DD")
		}
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return nil, apperrors.NewValidation("duration", "考试时长必须为正数")
	}

	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	exam := findExam(data, id)
	if exam == nil {
		return nil, ErrExamNotFound
	}

	if req.Name != nil {
		exam.Name = *req.Name
	}
	if req.Date != nil {
		exam.Date = *req.Date
		// 场次安排日期同步
		for i := range data.ExamSchedule {
			if data.ExamSchedule[i].ExamID == id {
				data.ExamSchedule[i].Date = *req.Date
			}
		}
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
		for i := range data.ExamSchedule {
			sched := &data.ExamSchedule[i]
			if sched.ExamID != id {
				continue
			}
			if start, err := time.Parse(timeLayout, sched.StartTime); err == nil {
				sched.EndTime = start.Add(time.Duration(*req.Duration) * time.Minute).Format(timeLayout)
			}
		}
	}
	appendActivity(data, "Updated exam: "+exam.Name)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("更新考试失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	updated := *exam
	return &updated, nil
}

func (s *examService) Delete(ctx context.Context, id string) error {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return err
	}

	var name string
	found := false
	kept := data.Exams[:0]
	for _, e := range data.Exams {
		if e.ID == id {
			found = true
			name = e.Name
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrExamNotFound
	}
	data.Exams = kept

	data.PruneExam(id)
	appendActivity(data, "Deleted exam: "+name)

	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("删除考试失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *examService) GetDetails(ctx context.Context, id string) (*dto.ExamDetails, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	exam := findExam(data, id)
	if exam == nil {
		return nil, ErrExamNotFound
	}

	details := &dto.ExamDetails{Exam: *exam}
	for i := range data.Courses {
		if data.Courses[i].ID == exam.CourseID {
			details.CourseName = data.Courses[i].Name
			break
		}
	}
	for i := range data.ExamSchedule {
		if data.ExamSchedule[i].ExamID == id {
			sched := data.ExamSchedule[i]
			details.Schedule = &sched
			break
		}
	}
	for i := range data.AssessmentEnrollments {
		if data.AssessmentEnrollments[i].ExamID == id {
			details.Enrolled++
		}
	}
	return details, nil
}

func (s *examService) List(ctx context.Context) ([]model.Exam, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}
	return data.Exams, nil
}

func (s *examService) ListUpcoming(ctx context.Context) ([]model.Exam, error) {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return nil, err
	}

	var upcoming []model.Exam
	for _, e := range data.Exams {
		if e.Status == model.ExamUpcoming {
			upcoming = append(upcoming, e)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Date < upcoming[j].Date
	})
	return upcoming, nil
}

func (s *examService) MarkCompleted(ctx context.Context, id string) error {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return err
	}

	exam := findExam(data, id)
	if exam == nil {
		return ErrExamNotFound
	}
	if exam.Status == model.ExamCompleted {
		return nil
	}
	exam.Status = model.ExamCompleted
	appendActivity(data, "Completed exam: "+exam.Name)

	return s.repo.Lecturer.Save(ctx, data)
}

func findExam(data *model.LecturerData, id string) *model.Exam {
	for i := range data.Exams {
		if data.Exams[i].ID == id {
			return &data.Exams[i]
		}
	}
	return nil
}

func courseExists(data *model.LecturerData, id string) bool {
	for i := range data.Courses {
		if data.Courses[i].ID == id {
			return true
		}
	}
	return false
}
