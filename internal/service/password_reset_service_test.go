package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	apperrors "exam-portal/backend/pkg/errors"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// ── Request 测试 ──

func TestPasswordResetService_Request_Success(t *testing.T) {
	svc, repo := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	code, err := svc.Reset.Request(context.Background(), "zhangsan@test.com")
	if err != nil {
		t.Fatalf("Request 应成功: %v", err)
	}
	if !codePattern.MatchString(code) {
		t.Errorf("验证码应为 6 位数字，实际=%s", code)
	}

	record, err := repo.Reset.Get(context.Background())
	if err != nil {
		t.Fatalf("读取重置槽应成功: %v", err)
	}
	if record.Email != "zhangsan@test.com" || record.Code != code {
		t.Errorf("单槽记录不一致: %+v", record)
	}
	if !record.ExpiresAt.After(time.Now()) {
		t.Error("过期时刻应在未来")
	}
}

func TestPasswordResetService_Request_UnknownEmail(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Reset.Request(context.Background(), "nobody@test.com")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("期望 ErrAccountNotFound，实际: %v", err)
	}
}

func TestPasswordResetService_Request_BadEmail(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Reset.Request(context.Background(), "not-an-email")
	if apperrors.AsValidation(err) == nil {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

func TestPasswordResetService_Request_OverwritesPrevious(t *testing.T) {
	svc, repo := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	registerTestStudent(t, svc, "654321", "lisi@test.com")

	if _, err := svc.Reset.Request(context.Background(), "zhangsan@test.com"); err != nil {
		t.Fatalf("首次 Request 应成功: %v", err)
	}
	// 全局单槽：新请求覆盖旧请求
	code2, err := svc.Reset.Request(context.Background(), "lisi@test.com")
	if err != nil {
		t.Fatalf("二次 Request 应成功: %v", err)
	}

	record, err := repo.Reset.Get(context.Background())
	if err != nil {
		t.Fatalf("读取重置槽应成功: %v", err)
	}
	if record.Email != "lisi@test.com" || record.Code != code2 {
		t.Errorf("期望槽位被新请求覆盖，实际=%+v", record)
	}
}

// ── Verify 测试 ──

func TestPasswordResetService_Verify_FullFlow(t *testing.T) {
	svc, repo := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	code, err := svc.Reset.Request(context.Background(), "zhangsan@test.com")
	if err != nil {
		t.Fatalf("Request 应成功: %v", err)
	}

	if err := svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        code,
		NewPassword: "brandnew99",
	}); err != nil {
		t.Fatalf("Verify 应成功: %v", err)
	}

	// 新密码生效，旧密码失效
	if _, err := svc.Account.Authenticate(context.Background(), "123456", "brandnew99"); err != nil {
		t.Errorf("新密码应可登录: %v", err)
	}
	if _, err := svc.Account.Authenticate(context.Background(), "123456", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}

	// 成功后槽位清空，同码不可复用
	record, err := repo.Reset.Get(context.Background())
	if err != nil {
		t.Fatalf("读取重置槽应成功: %v", err)
	}
	if !record.Empty() {
		t.Errorf("成功重置后槽位应清空，实际=%+v", record)
	}
	err = svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        code,
		NewPassword: "another123",
	})
	if !errors.Is(err, ErrNoActiveRequest) {
		t.Errorf("验证码不可复用，期望 ErrNoActiveRequest，实际: %v", err)
	}
}

func TestPasswordResetService_Verify_WrongCode(t *testing.T) {
	svc, _ := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	code, err := svc.Reset.Request(context.Background(), "zhangsan@test.com")
	if err != nil {
		t.Fatalf("Request 应成功: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        wrong,
		NewPassword: "brandnew99",
	})
	if !errors.Is(err, ErrInvalidCode) {
		t.Errorf("期望 ErrInvalidCode，实际: %v", err)
	}

	// 失败不消耗在途请求，正确码仍可用
	if err := svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        code,
		NewPassword: "brandnew99",
	}); err != nil {
		t.Errorf("正确验证码应仍可用: %v", err)
	}
}

func TestPasswordResetService_Verify_Expired(t *testing.T) {
	svc, repo := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	// 直接注入一条已过期的在途请求
	if err := repo.Reset.Set(context.Background(), &model.PasswordResetRequest{
		Email:     "zhangsan@test.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("注入过期请求失败: %v", err)
	}

	err := svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        "123456",
		NewPassword: "brandnew99",
	})
	if !errors.Is(err, ErrCodeExpired) {
		t.Errorf("期望 ErrCodeExpired，实际: %v", err)
	}

	// 过期记录留在槽内，密码不应被改动
	record, err := repo.Reset.Get(context.Background())
	if err != nil {
		t.Fatalf("读取重置槽应成功: %v", err)
	}
	if record.Empty() {
		t.Error("过期请求应留在槽内等新请求覆盖")
	}
	if _, err := svc.Account.Authenticate(context.Background(), "123456", "secret123"); err != nil {
		t.Errorf("过期验证不应改动密码: %v", err)
	}
}

func TestPasswordResetService_Verify_NoActiveRequest(t *testing.T) {
	svc, _ := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	err := svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        "123456",
		NewPassword: "brandnew99",
	})
	if !errors.Is(err, ErrNoActiveRequest) {
		t.Errorf("期望 ErrNoActiveRequest，实际: %v", err)
	}
}

func TestPasswordResetService_Verify_EmailMismatch(t *testing.T) {
	svc, _ := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")
	registerTestStudent(t, svc, "654321", "lisi@test.com")

	code, err := svc.Reset.Request(context.Background(), "zhangsan@test.com")
	if err != nil {
		t.Fatalf("Request 应成功: %v", err)
	}

	// 槽位属于张三，李四携相同验证码来也视为无在途请求
	err = svc.Reset.Verify(context.Background(), "lisi@test.com", &dto.ResetPasswordRequest{
		Code:        code,
		NewPassword: "brandnew99",
	})
	if !errors.Is(err, ErrNoActiveRequest) {
		t.Errorf("期望 ErrNoActiveRequest，实际: %v", err)
	}
}

func TestPasswordResetService_Verify_ShortPassword(t *testing.T) {
	svc, _ := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	code, err := svc.Reset.Request(context.Background(), "zhangsan@test.com")
	if err != nil {
		t.Fatalf("Request 应成功: %v", err)
	}

	err = svc.Reset.Verify(context.Background(), "zhangsan@test.com", &dto.ResetPasswordRequest{
		Code:        code,
		NewPassword: "short",
	})
	if apperrors.AsValidation(err) == nil {
		t.Errorf("期望校验错误，实际: %v", err)
	}
}

// ── Cancel 测试 ──

func TestPasswordResetService_Cancel(t *testing.T) {
	svc, repo := setupTestService(t)
	registerTestStudent(t, svc, "123456", "zhangsan@test.com")

	if _, err := svc.Reset.Request(context.Background(), "zhangsan@test.com"); err != nil {
		t.Fatalf("Request 应成功: %v", err)
	}
	if err := svc.Reset.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel 应成功: %v", err)
	}

	record, err := repo.Reset.Get(context.Background())
	if err != nil {
		t.Fatalf("读取重置槽应成功: %v", err)
	}
	if !record.Empty() {
		t.Errorf("取消后槽位应清空，实际=%+v", record)
	}

	// 无在途请求时取消同样成功
	if err := svc.Reset.Cancel(context.Background()); err != nil {
		t.Errorf("重复 Cancel 应为空操作: %v", err)
	}
}

// ── generateResetCode 测试 ──

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateResetCode()
		if err != nil {
			t.Fatalf("generateResetCode 应成功: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Errorf("验证码 %q 应为 6 位数字", code)
		}
		if code[0] == '0' {
			t.Errorf("验证码 %q 首位不应为 0（区间 100000-999999）", code)
		}
	}
}
