package repository

import (
	"context"
	"errors"

	"exam-portal/backend/internal/model"
	apperrors "exam-portal/backend/pkg/errors"
	"exam-portal/backend/pkg/localstore"
)

// AccountRepository 账号数据访问接口。
// 所有写操作整体重写 users 集合，调用方观察不到部分写入。
type AccountRepository interface {
	Create(ctx context.Context, acct *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Update(ctx context.Context, acct *model.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Account, error)
}

// accountRepo AccountRepository 的 localstore 实现
type accountRepo struct {
	store *localstore.Store
}

// NewAccountRepo 创建 AccountRepository 实例
func NewAccountRepo(store *localstore.Store) AccountRepository {
	return &accountRepo{store: store}
}

func (r *accountRepo) load() ([]model.Account, error) {
	var accounts []model.Account
	if err := r.store.Get(accountsKey, &accounts); err != nil {
		if errors.Is(err, localstore.ErrNoRecord) {
			return nil, nil
		}
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepo) save(accounts []model.Account) error {
	return r.store.Set(accountsKey, accounts)
}

func (r *accountRepo) Create(_ context.Context, acct *model.Account) error {
	accounts, err := r.load()
	if err != nil {
		return err
	}
	accounts = append(accounts, *acct)
	return r.save(accounts)
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return a.ID == id })
}

func (r *accountRepo) GetByStudentID(_ context.Context, studentID string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return a.StudentID == studentID })
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return a.Email == email })
}

func (r *accountRepo) find(match func(*model.Account) bool) (*model.Account, error) {
	accounts, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if match(&accounts[i]) {
			acct := accounts[i]
			return &acct, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *accountRepo) Update(_ context.Context, acct *model.Account) error {
	accounts, err := r.load()
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].ID == acct.ID {
			accounts[i] = *acct
			return r.save(accounts)
		}
	}
	return apperrors.ErrNotFound
}

func (r *accountRepo) Delete(_ context.Context, id string) error {
	accounts, err := r.load()
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			accounts = append(accounts[:i], accounts[i+1:]...)
			return r.save(accounts)
		}
	}
	return apperrors.ErrNotFound
}

func (r *accountRepo) List(_ context.Context) ([]model.Account, error) {
	return r.load()
}
