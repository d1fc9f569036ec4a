package model

// LecturerData 讲师端聚合 — 持久化于 lecturerMockData 键。
// 纯展示数据，整体读、整体写；唯一对核心契约可见的部分是
// 账号删除时对选课/应试记录的级联清理。
type LecturerData struct {
	Courses               []Course               `json:"courses"`
	Exams                 []Exam                 `json:"exams"`
	ExamSchedule          []ExamSchedule         `json:"examSchedule"`
	Enrollments           []Enrollment           `json:"enrollments"`
	AssessmentEnrollments []AssessmentEnrollment `json:"assessmentEnrollments"`
	PlagiarismReports     []PlagiarismReport     `json:"plagiarismReports"`
	ResubmissionRequests  []ResubmissionRequest  `json:"resubmissionRequests"`
	Activities            []Activity             `json:"activities"`
}

// Empty 聚合是否尚未初始化（用于首次播种判断）
func (d *LecturerData) Empty() bool {
	return d == nil || (len(d.Courses) == 0 && len(d.Exams) == 0 && len(d.Activities) == 0)
}

// PruneStudent 移除引用该账号的全部选课与应试记录，返回清理条数
func (d *LecturerData) PruneStudent(accountID string) int {
	pruned := 0

	kept := d.Enrollments[:0]
	for _, e := range d.Enrollments {
		if e.StudentID == accountID {
			pruned++
			continue
		}
		kept = append(kept, e)
	}
	d.Enrollments = kept

	keptAE := d.AssessmentEnrollments[:0]
	for _, e := range d.AssessmentEnrollments {
		if e.StudentID == accountID {
			pruned++
			continue
		}
		keptAE = append(keptAE, e)
	}
	d.AssessmentEnrollments = keptAE

	return pruned
}

// PruneExam 移除引用该考试的场次安排与应试记录
func (d *LecturerData) PruneExam(examID string) {
	kept := d.ExamSchedule[:0]
	for _, s := range d.ExamSchedule {
		if s.ExamID != examID {
			kept = append(kept, s)
		}
	}
	d.ExamSchedule = kept

	keptAE := d.AssessmentEnrollments[:0]
	for _, e := range d.AssessmentEnrollments {
		if e.ExamID != examID {
			keptAE = append(keptAE, e)
		}
	}
	d.AssessmentEnrollments = keptAE
}
