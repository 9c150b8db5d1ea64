package repository

import (
	"context"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

// SaleRepository has no update: sales are immutable once written.
type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id string) (*model.Sale, error)
	List(ctx context.Context) ([]model.Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// ListBetween returns sales with created_at in [from, to).
func (r *saleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Order("created_at desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
