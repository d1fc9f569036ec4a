package model

// ExamStatus 考试状态
type ExamStatus string

const (
	ExamUpcoming  ExamStatus = "upcoming"
	ExamCompleted ExamStatus = "completed"
)

// Exam 考试 — lecturerMockData 聚合成员
type Exam struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	CourseID string     `json:"courseId"`
	Date     string     `json:"date"` // YYYY-MM-DD
	Duration int        `json:"duration"` // 分钟
	Status   ExamStatus `json:"status"`
}

// ExamSchedule 考试场次安排（考场与起止时间）
type ExamSchedule struct {
	ID        string `json:"id"`
	ExamID    string `json:"examId"`
	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM
	Location  string `json:"location"`
}
