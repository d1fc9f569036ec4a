package service

import (
	"context"
	"errors"
	"testing"

	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	apperrors "exam-portal/backend/pkg/errors"
)

// ── statusForScore 测试 ──

func TestStatusForScore(t *testing.T) {
	cases := []struct {
		score  int
		status string
	}{
		{0, model.ReportStatusCleared},
		{19, model.ReportStatusCleared},
		{20, model.ReportStatusReview},
		{39, model.ReportStatusReview},
		{40, model.ReportStatusFlagged},
		{100, model.ReportStatusFlagged},
	}
	for _, tc := range cases {
		if got := statusForScore(tc.score); got != tc.status {
			t.Errorf("分数 %d 期望状态=%s，实际=%s", tc.score, tc.status, got)
		}
	}
}

// ── GenerateReport 测试 ──

func TestReportService_GenerateReport(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	report, err := svc.Report.GenerateReport(context.Background(), acct.ID, examID)
	if err != nil {
		t.Fatalf("GenerateReport 应成功: %v", err)
	}
	if report.SimilarityScore < 0 || report.SimilarityScore > 100 {
		t.Errorf("相似度应在 0-100，实际=%d", report.SimilarityScore)
	}
	if report.Status != statusForScore(report.SimilarityScore) {
		t.Errorf("状态与分数不一致: score=%d status=%s", report.SimilarityScore, report.Status)
	}
	if report.StudentName != acct.Name || report.CourseName != "操作系统" {
		t.Errorf("报告应回填学生与课程名: %+v", report)
	}

	// 报告落入聚合，可按 ID 读回
	got, err := svc.Report.GetReport(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	if got.ID != report.ID {
		t.Errorf("期望读回同一报告，实际=%s", got.ID)
	}
}

func TestReportService_GenerateReport_ExamNotFound(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	_, err := svc.Report.GenerateReport(context.Background(), acct.ID, "nonexistent")
	if !errors.Is(err, ErrExamNotFound) {
		t.Errorf("期望 ErrExamNotFound，实际: %v", err)
	}
}

func TestReportService_GetReport_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Report.GetReport(context.Background(), "nonexistent")
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("期望 ErrReportNotFound，实际: %v", err)
	}
}

func TestReportService_UpdateReportStatus(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	report, err := svc.Report.GenerateReport(context.Background(), acct.ID, examID)
	if err != nil {
		t.Fatalf("GenerateReport 应成功: %v", err)
	}

	updated, err := svc.Report.UpdateReportStatus(context.Background(), report.ID, model.ReportStatusCleared)
	if err != nil {
		t.Fatalf("UpdateReportStatus 应成功: %v", err)
	}
	if updated.Status != model.ReportStatusCleared {
		t.Errorf("期望状态 Cleared，实际=%s", updated.Status)
	}

	// 非法状态值被拒
	if _, err := svc.Report.UpdateReportStatus(context.Background(), report.ID, "随便"); apperrors.AsValidation(err) == nil {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

func TestReportService_ListReports_SortedByScore(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	for i := 0; i < 3; i++ {
		if _, err := svc.Report.GenerateReport(context.Background(), acct.ID, examID); err != nil {
			t.Fatalf("GenerateReport 应成功: %v", err)
		}
	}

	reports, err := svc.Report.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports 应成功: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("期望 3 份报告，实际=%d", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i-1].SimilarityScore < reports[i].SimilarityScore {
			t.Errorf("报告应按相似度降序: %d 在 %d 前",
				reports[i-1].SimilarityScore, reports[i].SimilarityScore)
		}
	}
}

// ── 重交申请测试 ──

func TestReportService_Resubmission_ApproveFlow(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	request, err := svc.Report.RequestResubmission(context.Background(), acct.ID, examID, "考试中途断网")
	if err != nil {
		t.Fatalf("RequestResubmission 应成功: %v", err)
	}
	if request.Status != model.ResubmissionPending {
		t.Errorf("新申请应为 pending，实际=%s", request.Status)
	}

	reviewed, err := svc.Report.ReviewResubmission(context.Background(), request.ID, &dto.ReviewResubmissionRequest{
		Approve:    true,
		Message:    "情况属实，准予重考",
		ReviewedBy: "李老师",
	})
	if err != nil {
		t.Fatalf("ReviewResubmission 应成功: %v", err)
	}
	if reviewed.Status != model.ResubmissionApproved {
		t.Errorf("期望状态 approved，实际=%s", reviewed.Status)
	}
	if reviewed.ResponseDate == nil || reviewed.ResponseMessage == nil || reviewed.ReviewedBy == nil {
		t.Error("审批后应填充响应字段")
	}

	// 已审批的申请不可二次流转
	_, err = svc.Report.ReviewResubmission(context.Background(), request.ID, &dto.ReviewResubmissionRequest{
		Approve: false,
	})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("期望 ErrAlreadyReviewed，实际: %v", err)
	}
}

func TestReportService_Resubmission_Reject(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	request, err := svc.Report.RequestResubmission(context.Background(), acct.ID, examID, "答卷提交失败")
	if err != nil {
		t.Fatalf("RequestResubmission 应成功: %v", err)
	}

	reviewed, err := svc.Report.ReviewResubmission(context.Background(), request.ID, &dto.ReviewResubmissionRequest{
		Approve:    false,
		Message:    "证据不足",
		ReviewedBy: "李老师",
	})
	if err != nil {
		t.Fatalf("ReviewResubmission 应成功: %v", err)
	}
	if reviewed.Status != model.ResubmissionRejected {
		t.Errorf("期望状态 rejected，实际=%s", reviewed.Status)
	}
}

func TestReportService_Resubmission_EmptyReason(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	_, err := svc.Report.RequestResubmission(context.Background(), acct.ID, examID, "")
	if apperrors.AsValidation(err) == nil {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

func TestReportService_Review_NotFound(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Report.ReviewResubmission(context.Background(), "nonexistent", &dto.ReviewResubmissionRequest{
		Approve: true,
	})
	if !errors.Is(err, ErrResubmissionNotFound) {
		t.Errorf("期望 ErrResubmissionNotFound，实际: %v", err)
	}
}
