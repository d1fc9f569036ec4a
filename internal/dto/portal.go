package dto

import "exam-portal/backend/internal/model"

// ── 讲师端聚合 DTO ──

// CreateCourseRequest 新建课程
type CreateCourseRequest struct {
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
}

// CreateExamRequest 新建考试（连同场次安排）
type CreateExamRequest struct {
	Name      string `json:"name"`
	CourseID  string `json:"course_id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	Duration  int    `json:"duration"`   // 分钟
	Location  string `json:"location"`
}

// UpdateExamRequest 编辑考试（仅更新非 nil 字段）
type UpdateExamRequest struct {
	Name     *string `json:"name"`
	Date     *string `json:"date"`
	Duration *int    `json:"duration"`
}

// ExamDetails 考试详情（含课程名与场次安排）
type ExamDetails struct {
	Exam       model.Exam          `json:"exam"`
	CourseName string              `json:"course_name"`
	Schedule   *model.ExamSchedule `json:"schedule,omitempty"`
	Enrolled   int                 `json:"enrolled"`
}

// EnrollRequest 选课请求
type EnrollRequest struct {
	StudentID string `json:"student_id"` // Account.ID
	CourseID  string `json:"course_id"`
}

// AssessmentEnrollRequest 考试报名请求
type AssessmentEnrollRequest struct {
	StudentID string `json:"student_id"`
	ExamID    string `json:"exam_id"`
}

// EnrollmentView 选课展示行（关联学生姓名与课程名）
type EnrollmentView struct {
	model.Enrollment
	StudentName string `json:"studentName"`
	CourseName  string `json:"courseName"`
}

// ReviewResubmissionRequest 审批重交申请
type ReviewResubmissionRequest struct {
	Approve    bool   `json:"approve"`
	Message    string `json:"message"`
	ReviewedBy string `json:"reviewed_by"`
}
