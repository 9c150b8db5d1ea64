package repository

import (
	"context"
	"fmt"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

// SalesSummary aggregates sales over a time window.
type SalesSummary struct {
	Revenue float64 `gorm:"column:revenue"`
	Count   int64   `gorm:"column:count"`
}

type StatisticsRepository interface {
	// SumTotalsBetween aggregates sales with created_at in [from, to).
	SumTotalsBetween(ctx context.Context, from, to time.Time) (SalesSummary, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) SumTotalsBetween(ctx context.Context, from, to time.Time) (SalesSummary, error) {
	var summary SalesSummary
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Scan(&summary).Error; err != nil {
		return SalesSummary{}, fmt.Errorf("failed to sum sales: %w", err)
	}
	return summary, nil
}
