// Package identity resolves the acting user across the auth provider, the
// hosted profile table and the local profile mirror.
package identity

//go:generate mockgen -source=identity.go -destination=mock_identity.go -package=identity

import (
	"context"
	"time"

	"retailpos/internal/model"
)

// Session is an authenticated session issued by the auth provider.
type Session struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

// SessionProvider returns the active session, or nil when nobody is signed in.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// ProfileSource is the authoritative (hosted) profile table.
type ProfileSource interface {
	FetchProfiles(ctx context.Context, id string) ([]model.User, error)
}

// ProfileStore is the local profile mirror.
type ProfileStore interface {
	FindProfile(ctx context.Context, id string) (*model.User, error)
	UpsertProfile(ctx context.Context, user *model.User) error
}
