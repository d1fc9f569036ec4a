package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"exam-portal/backend/config"
	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
	apperrors "exam-portal/backend/pkg/errors"
)

// ── 密码重置模块业务错误 ──

var (
	ErrNoActiveRequest = errors.New("当前没有在途的重置请求")
	ErrInvalidCode     = errors.New("验证码不正确")
	ErrCodeExpired     = errors.New("验证码已过期，请重新申请")
)

// PasswordResetService 密码重置流程接口 — otpData 单槽的唯一属主。
// 全局同一时刻只有一条在途请求，新请求覆盖旧请求。
type PasswordResetService interface {
	// Request 为指定邮箱发起重置：生成 6 位验证码并占据单槽。
	// 演示场景下验证码直接返回给调用方（无真实邮件通道）。
	Request(ctx context.Context, email string) (string, error)
	// Verify 校验验证码并改写密码；成功后清空单槽
	Verify(ctx context.Context, email string, req *dto.ResetPasswordRequest) error
	// Cancel 放弃在途请求，清空单槽；无在途请求时为空操作
	Cancel(ctx context.Context) error
}

type passwordResetService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPasswordResetService 创建 PasswordResetService 实例
func NewPasswordResetService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PasswordResetService {
	return &passwordResetService{cfg: cfg, repo: repo, logger: logger}
}

func (s *passwordResetService) Request(ctx context.Context, email string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "", apperrors.NewValidation("email", "邮箱格式不正确")
	}

	// 邮箱必须对应已注册账号
	if _, err := s.repo.Account.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", err
	}

	code, err := generateResetCode()
	if err != nil {
		s.logger.Error("生成验证码失败", zap.Error(err))
		return "", err
	}

	record := &model.PasswordResetRequest{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.cfg.Auth.ResetCodeTTL),
	}
	if err := s.repo.Reset.Set(ctx, record); err != nil {
		s.logger.Error("写入重置请求失败", zap.Error(err))
		return "", err
	}

	s.logger.Info("已发起密码重置", zap.String("email", email))
	return code, nil
}

func (s *passwordResetService) Verify(ctx context.Context, email string, req *dto.ResetPasswordRequest) error {
	if len(req.NewPassword) < s.cfg.Auth.MinPasswordLength {
		return apperrors.NewValidation("new_password",
			fmt.Sprintf("密码长度不能少于 %d 位", s.cfg.Auth.MinPasswordLength))
	}

	record, err := s.repo.Reset.Get(ctx)
	if err != nil {
		return err
	}
	// 校验顺序：无在途 → 验证码不符 → 过期
	if record.Empty() || record.Email != email {
		return ErrNoActiveRequest
	}
	if record.Code != req.Code {
		return ErrInvalidCode
	}
	if record.ExpiredAt(time.Now()) {
		// 过期记录留在槽内，等新请求覆盖
		return ErrCodeExpired
	}

	acct, err := s.repo.Account.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	acct.Password = req.NewPassword
	if err := s.repo.Account.Update(ctx, acct); err != nil {
		s.logger.Error("重置密码失败", zap.String("email", email), zap.Error(err))
		return err
	}

	if err := s.repo.Reset.Clear(ctx); err != nil {
		s.logger.Warn("清空重置槽失败", zap.Error(err))
	}

	s.logger.Info("密码重置成功", zap.String("email", email))
	return nil
}

func (s *passwordResetService) Cancel(ctx context.Context) error {
	return s.repo.Reset.Clear(ctx)
}

// generateResetCode 生成 100000-999999 区间的均匀随机验证码
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
