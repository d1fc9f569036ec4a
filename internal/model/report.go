package model

import "time"

// 抄袭报告审查状态
const (
	ReportStatusCleared = "Cleared"
	ReportStatusReview  = "Under Review"
	ReportStatusFlagged = "Flagged for Review"
)

// MatchedSource 相似内容来源及占比
type MatchedSource struct {
	Source          string `json:"source"`
	MatchPercentage int    `json:"matchPercentage"`
}

// FlaggedContent 被标记的答卷片段
type FlaggedContent struct {
	Content     string `json:"content"`
	MatchedWith string `json:"matchedWith"`
}

// PlagiarismReport 抄袭检测报告（演示数据，相似度为随机生成的模拟值）
type PlagiarismReport struct {
	ID              string           `json:"id"`
	StudentID       string           `json:"studentId"`
	StudentName     string           `json:"studentName"`
	ExamID          string           `json:"examId"`
	ExamName        string           `json:"examName"`
	CourseID        string           `json:"courseId"`
	CourseName      string           `json:"courseName"`
	SubmissionDate  time.Time        `json:"submissionDate"`
	SimilarityScore int              `json:"similarityScore"` // 0–100
	MatchedSources  []MatchedSource  `json:"matchedSources,omitempty"`
	FlaggedContent  []FlaggedContent `json:"flaggedContent,omitempty"`
	Status          string           `json:"status"`
}

// 重交申请状态
const (
	ResubmissionPending  = "pending"
	ResubmissionApproved = "approved"
	ResubmissionRejected = "rejected"
)

// ResubmissionRequest 考生的重交申请，由讲师审批
type ResubmissionRequest struct {
	ID              string     `json:"id"`
	StudentID       string     `json:"studentId"`
	StudentName     string     `json:"studentName"`
	ExamID          string     `json:"examId"`
	ExamName        string     `json:"examName"`
	SubmissionID    string     `json:"submissionId"`
	RequestDate     time.Time  `json:"requestDate"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ResponseDate    *time.Time `json:"responseDate"`
	ResponseMessage *string    `json:"responseMessage"`
	ReviewedBy      *string    `json:"reviewedBy"`
}
