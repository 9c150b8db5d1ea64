package local

import (
	"context"
	"errors"

	"retailpos/internal/model"
	"retailpos/internal/repository"

	"gorm.io/gorm"
)

// Profiles is the local users table as seen by the identity bridge.
type Profiles struct {
	users repository.UserRepository
}

func NewProfileStore(db *gorm.DB) *Profiles {
	return &Profiles{users: repository.NewUserRepository(db)}
}

// FindProfile returns nil, nil when the profile is not mirrored locally yet.
func (p *Profiles) FindProfile(ctx context.Context, id string) (*model.User, error) {
	user, err := p.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// UpsertProfile inserts the profile, or refreshes name, username, role and
// updated_at when the id already exists.
func (p *Profiles) UpsertProfile(ctx context.Context, user *model.User) error {
	return mapError(p.users.Upsert(ctx, user))
}
