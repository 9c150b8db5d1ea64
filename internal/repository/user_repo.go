package repository

import (
	"context"

	"retailpos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for data access of User profiles
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// ListByID returns every row matching id. Hosted profile tables have been
	// seen with zero or duplicate rows, so callers decide what to do.
	ListByID(ctx context.Context, id string) ([]model.User, error)
	// Upsert inserts a new profile or refreshes name, username, role and
	// updated_at of an existing one.
	Upsert(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByID(ctx context.Context, id string) ([]model.User, error) {
	var users []model.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "username", "role", "updated_at"}),
	}).Create(user).Error
}
