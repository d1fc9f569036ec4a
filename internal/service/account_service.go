package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"exam-portal/backend/config"
	"exam-portal/backend/internal/dto"
	"exam-portal/backend/internal/model"
	"exam-portal/backend/internal/repository"
	apperrors "exam-portal/backend/pkg/errors"
)

// ── 账号模块业务错误 ──

var (
	ErrAccountNotFound    = errors.New("账号不存在")
	ErrStudentIDExists    = errors.New("该学号已注册")
	ErrEmailExists        = errors.New("该邮箱已注册")
	ErrInvalidCredentials = errors.New("学号或密码错误")
)

var (
	studentIDPattern = regexp.MustCompile(`^\d{6}$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// AccountService 账号业务接口 — 账号集合的唯一属主，
// 全部增删改查经由此处，每次变更先校验、后改写、整体持久化。
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error)
	// RegisterLecturer 与 Register 同契约，但角色固定为 lecturer；
	// 调用方的授权由会话服务的 RequireRole 保证（外部关注点）
	RegisterLecturer(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error)
	// Authenticate 按学号查找并严格比对密码；未知学号与密码错误
	// 统一返回 ErrInvalidCredentials，不泄露账号是否存在
	Authenticate(ctx context.Context, studentID, password string) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*dto.AccountResponse, error)
	GetByEmail(ctx context.Context, email string) (*dto.AccountResponse, error)
	List(ctx context.Context) ([]dto.AccountResponse, error)
	UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.AccountResponse, error)
	UpdateAccount(ctx context.Context, id string, req *dto.UpdateAccountRequest) (*dto.AccountResponse, error)
	ChangePassword(ctx context.Context, id string, req *dto.ChangePasswordRequest) error
	Delete(ctx context.Context, id string) error
	ParseImportFile(reader io.Reader) ([]dto.ImportAccountRow, error)
	ImportAccounts(ctx context.Context, rows []dto.ImportAccountRow) (*dto.ImportAccountsResponse, error)
}

type accountService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAccountService 创建 AccountService 实例
func NewAccountService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AccountService {
	return &accountService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────

func (s *accountService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error) {
	return s.register(ctx, req, model.RoleStudent)
}

func (s *accountService) RegisterLecturer(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error) {
	return s.register(ctx, req, model.RoleLecturer)
}

func (s *accountService) register(ctx context.Context, req *dto.RegisterRequest, role model.Role) (*dto.AccountResponse, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	// 学号唯一性
	if _, err := s.repo.Account.GetByStudentID(ctx, req.StudentID); err == nil {
		return nil, ErrStudentIDExists
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// 邮箱唯一性
	if _, err := s.repo.Account.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	acct := &model.Account{
		ID:             uuid.NewString(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Name:           req.FirstName + " " + req.LastName,
		StudentID:      req.StudentID,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		Role:           role,
		ProfilePicture: model.DefaultProfilePicture,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Account.Create(ctx, acct); err != nil {
		s.logger.Error("创建账号失败", zap.Error(err))
		return nil, err
	}

	return toAccountResponse(acct), nil
}

func (s *accountService) validateRegistration(req *dto.RegisterRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return apperrors.NewValidation("first_name", "名字不能为空")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return apperrors.NewValidation("last_name", "姓氏不能为空")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return apperrors.NewValidation("phone", "电话不能为空")
	}
	if !studentIDPattern.MatchString(req.StudentID) {
		return apperrors.NewValidation("student_id", "学号必须为 6 位数字")
	}
	if !emailPattern.MatchString(req.Email) {
		return apperrors.NewValidation("email", "邮箱格式不正确")
	}
	if len(req.Password) < s.cfg.Auth.MinPasswordLength {
		return apperrors.NewValidation("password",
			fmt.Sprintf("密码长度不能少于 %d 位", s.cfg.Auth.MinPasswordLength))
	}
	return nil
}

// ────────────────────── Authenticate ──────────────────────

func (s *accountService) Authenticate(ctx context.Context, studentID, password string) (*model.Account, error) {
	if !studentIDPattern.MatchString(studentID) {
		return nil, apperrors.NewValidation("student_id", "学号必须为 6 位数字")
	}

	acct, err := s.repo.Account.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, err
	}

	// 严格等值比对，无任何后门口令或兜底账号
	if acct.Password != password {
		return nil, ErrInvalidCredentials
	}

	return acct, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *accountService) GetByID(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acct, err := s.repo.Account.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toAccountResponse(acct), nil
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*dto.AccountResponse, error) {
	acct, err := s.repo.Account.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		s.logger.Error("查询账号失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return toAccountResponse(acct), nil
}

func (s *accountService) List(ctx context.Context) ([]dto.AccountResponse, error) {
	accounts, err := s.repo.Account.List(ctx)
	if err != nil {
		s.logger.Error("列出账号失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		result = append(result, *toAccountResponse(&accounts[i]))
	}
	return result, nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *accountService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*dto.AccountResponse, error) {
	acct, err := s.repo.Account.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if req.Email != nil {
		if !emailPattern.MatchString(*req.Email) {
			return nil, apperrors.NewValidation("email", "邮箱格式不正确")
		}
		// 邮箱可能被他人占用
		existing, err := s.repo.Account.GetByEmail(ctx, *req.Email)
		if err == nil && existing.ID != id {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		acct.Email = *req.Email
	}
	if req.FirstName != nil {
		acct.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		acct.LastName = *req.LastName
	}
	if req.Phone != nil {
		acct.Phone = *req.Phone
	}
	if req.ProfilePicture != nil {
		acct.ProfilePicture = *req.ProfilePicture
	}
	acct.Name = acct.FirstName + " " + acct.LastName

	if err := s.repo.Account.Update(ctx, acct); err != nil {
		s.logger.Error("更新资料失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 若改的是当前登录账号，同步刷新会话投影
	if err := s.refreshSession(ctx, acct); err != nil {
		s.logger.Warn("刷新会话投影失败", zap.Error(err))
	}

	return toAccountResponse(acct), nil
}

// ────────────────────── UpdateAccount（管理路径） ──────────────────────

func (s *accountService) UpdateAccount(ctx context.Context, id string, req *dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	acct, err := s.repo.Account.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if req.Email != nil {
		if !emailPattern.MatchString(*req.Email) {
			return nil, apperrors.NewValidation("email", "邮箱格式不正确")
		}
		existing, err := s.repo.Account.GetByEmail(ctx, *req.Email)
		if err == nil && existing.ID != id {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		acct.Email = *req.Email
	}
	if req.FirstName != nil {
		acct.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		acct.LastName = *req.LastName
	}
	if req.Phone != nil {
		acct.Phone = *req.Phone
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.NewValidation("role", "角色取值不合法")
		}
		acct.Role = *req.Role
	}
	acct.Name = acct.FirstName + " " + acct.LastName
	// 密码保持原值，管理编辑不经过密码字段

	if err := s.repo.Account.Update(ctx, acct); err != nil {
		s.logger.Error("编辑账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.recordActivity(ctx, "Updated user: "+acct.Name); err != nil {
		s.logger.Warn("记录操作动态失败", zap.Error(err))
	}

	return toAccountResponse(acct), nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *accountService) ChangePassword(ctx context.Context, id string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < s.cfg.Auth.MinPasswordLength {
		return apperrors.NewValidation("new_password",
			fmt.Sprintf("密码长度不能少于 %d 位", s.cfg.Auth.MinPasswordLength))
	}

	acct, err := s.repo.Account.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	// 旧密码不匹配时不得改动任何已存状态
	if acct.Password != req.OldPassword {
		return ErrInvalidCredentials
	}

	acct.Password = req.NewPassword
	if err := s.repo.Account.Update(ctx, acct); err != nil {
		s.logger.Error("修改密码失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *accountService) Delete(ctx context.Context, id string) error {
	acct, err := s.repo.Account.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := s.repo.Account.Delete(ctx, id); err != nil {
		s.logger.Error("删除账号失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 级联清理该账号的选课与应试记录，并记录动态
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		s.logger.Error("读取讲师端聚合失败", zap.Error(err))
		return err
	}
	pruned := data.PruneStudent(id)
	appendActivity(data, "Deleted user: "+acct.Name)
	if err := s.repo.Lecturer.Save(ctx, data); err != nil {
		s.logger.Error("清理选课记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if pruned > 0 {
		s.logger.Info("已级联清理选课/应试记录",
			zap.String("account_id", id), zap.Int("pruned", pruned))
	}

	// 被删账号若正处于登录态，会话一并失效
	session, err := s.repo.Session.Get(ctx)
	if err == nil && session != nil && session.AccountID == id {
		if err := s.repo.Session.Clear(ctx); err != nil {
			s.logger.Warn("清除会话失败", zap.Error(err))
		}
	}

	return nil
}

// ────────────────────── Excel 花名册导入 ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel 文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel 表头缺少必要列（名/姓/学号/邮箱）")
)

// ParseImportFile 解析花名册 Excel 文件，返回解析后的行数据
func (s *accountService) ParseImportFile(reader io.Reader) ([]dto.ImportAccountRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析 Excel 文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["first_name"] < 0 || colIndex["last_name"] < 0 ||
		colIndex["student_id"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []dto.ImportAccountRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := dto.ImportAccountRow{Row: i + 1}

		if idx := colIndex["first_name"]; idx < len(row) {
			item.FirstName = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["last_name"]; idx < len(row) {
			item.LastName = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["student_id"]; idx < len(row) {
			item.StudentID = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["email"]; idx < len(row) {
			item.Email = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["phone"]; idx >= 0 && idx < len(row) {
			item.Phone = strings.TrimSpace(row[idx])
		}

		// 跳过全空行
		if item.FirstName == "" && item.LastName == "" && item.StudentID == "" && item.Email == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"first_name": -1,
		"last_name":  -1,
		"student_id": -1,
		"email":      -1,
		"phone":      -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lower == "名" || lower == "first name" || lower == "first_name":
			idx["first_name"] = i
		case lower == "姓" || lower == "last name" || lower == "last_name":
			idx["last_name"] = i
		case lower == "学号" || lower == "student id" || lower == "student_id":
			idx["student_id"] = i
		case lower == "邮箱" || lower == "email":
			idx["email"] = i
		case lower == "电话" || lower == "phone":
			idx["phone"] = i
		}
	}
	return idx
}

// ImportAccounts 批量创建学生账号，默认密码由学号派生（Ex + 学号）
func (s *accountService) ImportAccounts(ctx context.Context, rows []dto.ImportAccountRow) (*dto.ImportAccountsResponse, error) {
	resp := &dto.ImportAccountsResponse{Total: len(rows)}

	for _, row := range rows {
		req := &dto.RegisterRequest{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			StudentID: row.StudentID,
			Email:     row.Email,
			Phone:     row.Phone,
			Password:  "Ex" + row.StudentID,
		}
		if req.Phone == "" {
			req.Phone = "-"
		}

		if _, err := s.register(ctx, req, model.RoleStudent); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportAccountError{
				Row: row.Row, Reason: err.Error(),
			})
			continue
		}
		resp.Success++
	}

	s.logger.Info("花名册导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

// refreshSession 账号资料变更后同步 currentUser 投影
func (s *accountService) refreshSession(ctx context.Context, acct *model.Account) error {
	session, err := s.repo.Session.Get(ctx)
	if err != nil || session == nil || session.AccountID != acct.ID {
		return err
	}
	return s.repo.Session.Set(ctx, model.NewSession(acct))
}

func (s *accountService) recordActivity(ctx context.Context, message string) error {
	data, err := s.repo.Lecturer.Get(ctx)
	if err != nil {
		return err
	}
	appendActivity(data, message)
	return s.repo.Lecturer.Save(ctx, data)
}

// toAccountResponse 将 model.Account 转换为不含密码的对外投影
func toAccountResponse(acct *model.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:             acct.ID,
		FirstName:      acct.FirstName,
		LastName:       acct.LastName,
		Name:           acct.Name,
		StudentID:      acct.StudentID,
		Email:          acct.Email,
		Phone:          acct.Phone,
		Role:           acct.Role,
		ProfilePicture: acct.ProfilePicture,
		CreatedAt:      acct.CreatedAt,
	}
}
