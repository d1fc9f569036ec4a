package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
)

// ── 会话模块业务错误 ──

var (
	ErrUnauthenticated = errors.New("未登录")
	ErrForbidden       = errors.New("当前角色无权执行该操作")
)

// AuthService 会话管理接口 — currentUser 单槽的唯一属主。
// 凭据校验委托给 AccountService，本层只负责会话投影的建立与销毁。
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*model.Session, error)
	// Logout 幂等：无会话时也成功返回
	Logout(ctx context.Context) error
	// Current 读取当前会话；未登录返回 (nil, nil)
	Current(ctx context.Context) (*model.Session, error)
	// RequireRole 登录态 + 角色双重检查：
	// 未登录返回 ErrUnauthenticated，角色不符返回 ErrForbidden
	RequireRole(ctx context.Context, role model.Role) (*model.Session, error)
}

type authService struct {
	accountService AccountService
	repo           *repository.Repository
	logger         *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(accountService AccountService, repo *repository.Repository, logger *zap.Logger) AuthService {
	return &authService{accountService: accountService, repo: repo, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*model.Session, error) {
	acct, err := s.accountService.Authenticate(ctx, req.StudentID, req.Password)
	if err != nil {
		return nil, err
	}

	session := model.NewSession(acct)
	if err := s.repo.Session.Set(ctx, session); err != nil {
		s.logger.Error("写入会话失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("登录成功",
		zap.String("account_id", acct.ID),
		zap.String("role", string(acct.Role)),
	)
	return session, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.repo.Session.Clear(ctx)
}

func (s *authService) Current(ctx context.Context) (*model.Session, error) {
	return s.repo.Session.Get(ctx)
}

func (s *authService) RequireRole(ctx context.Context, role model.Role) (*model.Session, error) {
	session, err := s.repo.Session.Get(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}
	if session.Role != role {
		return nil, ErrForbidden
	}
	return session, nil
}
