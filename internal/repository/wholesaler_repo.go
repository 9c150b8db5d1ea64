package repository

import (
	"context"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

type WholesalerRepository interface {
	Create(ctx context.Context, wholesaler *model.Wholesaler) error
	FindByID(ctx context.Context, id string) (*model.Wholesaler, error)
	List(ctx context.Context) ([]model.Wholesaler, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type wholesalerRepository struct {
	db *gorm.DB
}

func NewWholesalerRepository(db *gorm.DB) WholesalerRepository {
	return &wholesalerRepository{db: db}
}

func (r *wholesalerRepository) Create(ctx context.Context, wholesaler *model.Wholesaler) error {
	return GetDB(ctx, r.db).Create(wholesaler).Error
}

func (r *wholesalerRepository) FindByID(ctx context.Context, id string) (*model.Wholesaler, error) {
	var wholesaler model.Wholesaler
	if err := GetDB(ctx, r.db).First(&wholesaler, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wholesaler, nil
}

func (r *wholesalerRepository) List(ctx context.Context) ([]model.Wholesaler, error) {
	var wholesalers []model.Wholesaler
	if err := GetDB(ctx, r.db).Order("created_at desc").Find(&wholesalers).Error; err != nil {
		return nil, err
	}
	return wholesalers, nil
}

func (r *wholesalerRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}, now time.Time) (bool, error) {
	values := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = now.UTC()

	res := GetDB(ctx, r.db).Model(&model.Wholesaler{}).Where("id = ?", id).Updates(values)
	return res.RowsAffected > 0, res.Error
}

func (r *wholesalerRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Wholesaler{})
	return res.RowsAffected > 0, res.Error
}
