package repository

import (
	"context"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
	ListExpiringBefore(ctx context.Context, t time.Time) ([]model.Product, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	AdjustStock(ctx context.Context, id string, delta int, now time.Time) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := GetDB(ctx, r.db).Where("stock <= low_stock_threshold").
		Order("stock asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListExpiringBefore(ctx context.Context, t time.Time) ([]model.Product, error) {
	var products []model.Product
	if err := GetDB(ctx, r.db).Where("expiry_date IS NOT NULL AND expiry_date <= ?", t.UTC()).
		Order("expiry_date asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateFields writes only the given columns and always refreshes updated_at.
func (r *productRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}, now time.Time) (bool, error) {
	values := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = now.UTC()

	res := GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Updates(values)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{})
	return res.RowsAffected > 0, res.Error
}

// AdjustStock applies delta in one conditional statement. It reports false when
// the product does not exist or the result would drop below zero.
func (r *productRepository) AdjustStock(ctx context.Context, id string, delta int, now time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": now.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
