package repository

import (
	"context"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

// StockAdjustmentRepository is an append-only ledger.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *model.StockAdjustment) error
	List(ctx context.Context) ([]model.StockAdjustment, error)
	ListByProduct(ctx context.Context, productID string) ([]model.StockAdjustment, error)
}

type stockAdjustmentRepository struct {
	db *gorm.DB
}

func NewStockAdjustmentRepository(db *gorm.DB) StockAdjustmentRepository {
	return &stockAdjustmentRepository{db: db}
}

func (r *stockAdjustmentRepository) Create(ctx context.Context, adj *model.StockAdjustment) error {
	return GetDB(ctx, r.db).Create(adj).Error
}

func (r *stockAdjustmentRepository) List(ctx context.Context) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

func (r *stockAdjustmentRepository) ListByProduct(ctx context.Context, productID string) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	if err := GetDB(ctx, r.db).Where("product_id = ?", productID).
		Order("created_at desc").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}
