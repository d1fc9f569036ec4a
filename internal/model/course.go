package model

// Course 课程 — lecturerMockData 聚合成员
type Course struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
}
