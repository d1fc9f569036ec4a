package model

import "time"

// Enrollment 选课记录；StudentID 引用 Account.ID。
// 账号删除时必须级联清理其全部选课与应试记录（见账号服务）。
type Enrollment struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"studentId"`
	CourseID     string    `json:"courseId"`
	EnrolledDate time.Time `json:"enrolledDate"`
}

// AssessmentEnrollment 应试（考试报名）记录
type AssessmentEnrollment struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"studentId"`
	ExamID       string    `json:"examId"`
	CourseID     string    `json:"courseId"`
	EnrolledDate time.Time `json:"enrolledDate"`
}
