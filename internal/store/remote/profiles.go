package remote

import (
	"context"
	"fmt"

	"retailpos/internal/model"
	"retailpos/internal/repository"

	"gorm.io/gorm"
)

// ProfileSource reads profile rows from the hosted users table.
type ProfileSource struct {
	users repository.UserRepository
	tx    repository.TransactionManager
}

func NewProfileSource(db *gorm.DB) *ProfileSource {
	return &ProfileSource{
		users: repository.NewUserRepository(db),
		tx:    newSessionManager(db),
	}
}

// FetchProfiles returns every profile row for id. The lookup runs as the
// user being fetched, so policies that only expose a caller's own row apply.
func (p *ProfileSource) FetchProfiles(ctx context.Context, id string) ([]model.User, error) {
	var users []model.User
	err := p.tx.RunInTx(withSubject(ctx, id), func(txCtx context.Context) error {
		var err error
		users, err = p.users.ListByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", id, mapError(err))
	}
	return users, nil
}

// CreateProfile writes the profile row for a newly signed-up account.
func (p *ProfileSource) CreateProfile(ctx context.Context, user *model.User) error {
	err := p.tx.RunInTx(withSubject(ctx, user.ID), func(txCtx context.Context) error {
		return p.users.Create(txCtx, user)
	})
	if err != nil {
		return fmt.Errorf("failed to create profile %s: %w", user.ID, mapError(err))
	}
	return nil
}
