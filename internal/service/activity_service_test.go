package service

import (
	"context"
	"testing"

	"exam-portal/backend/internal/dto"
)

func TestActivityService_RecordAndList(t *testing.T) {
	svc, _ := setupTestService(t)

	for _, msg := range []string{"第一条", "第二条", "第三条"} {
		if err := svc.Activity.Record(context.Background(), msg); err != nil {
			t.Fatalf("Record 应成功: %v", err)
		}
	}

	activities, err := svc.Activity.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("期望 3 条动态，实际=%d", len(activities))
	}
	// 时间倒序，最新在前
	if activities[0].Message != "第三条" {
		t.Errorf("期望最新动态在前，实际=%s", activities[0].Message)
	}
}

func TestActivityService_List_Limit(t *testing.T) {
	svc, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		if err := svc.Activity.Record(context.Background(), "动态"); err != nil {
			t.Fatalf("Record 应成功: %v", err)
		}
	}

	activities, err := svc.Activity.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(activities) != 2 {
		t.Errorf("期望截断为 2 条，实际=%d", len(activities))
	}
}

func TestActivityService_MutationsRecordActivities(t *testing.T) {
	svc, _ := setupTestService(t)
	acct := registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	courseID := createTestCourse(t, svc, "操作系统")
	examID := createTestExam(t, svc, courseID, "期中考试", "2026-10-01")

	if _, err := svc.Enrollment.Enroll(context.Background(), &dto.EnrollRequest{
		StudentID: acct.ID, CourseID: courseID,
	}); err != nil {
		t.Fatalf("选课应成功: %v", err)
	}
	if err := svc.Exam.Delete(context.Background(), examID); err != nil {
		t.Fatalf("删除考试应成功: %v", err)
	}

	activities, err := svc.Activity.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	// 建课、排考、选课、删考各记一条
	if len(activities) != 4 {
		t.Errorf("期望 4 条动态，实际=%d", len(activities))
	}
}
