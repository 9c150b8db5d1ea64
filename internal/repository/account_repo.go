package repository

import (
	"context"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	UpdatePassword(ctx context.Context, id, hash string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := GetDB(ctx, r.db).First(&account, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, hash string, now time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": now.UTC()}).Error
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Account{}).Error
}
