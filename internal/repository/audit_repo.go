package repository

import (
	"context"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditEntry) error
	List(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// List returns the newest entries first, never more than MaxAuditEntries.
func (r *auditRepository) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > model.MaxAuditEntries {
		limit = model.MaxAuditEntries
	}
	var entries []model.AuditEntry
	if err := GetDB(ctx, r.db).Order("timestamp desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
