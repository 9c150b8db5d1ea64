package identity

import (
	"context"
	"log"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/store"
)

// DefaultProfileMaxAge is how long a mirrored profile is trusted before it is
// refreshed from the hosted table.
const DefaultProfileMaxAge = 24 * time.Hour

// Bridge is the single answer to "who is acting". Lookup failures resolve to
// an absent user and are logged; they are never returned as errors.
type Bridge struct {
	sessions SessionProvider
	remote   ProfileSource
	local    ProfileStore
	maxAge   time.Duration
	now      func() time.Time
}

var _ store.Identity = (*Bridge)(nil)

// NewBridge builds a bridge. A nil local store gives a remote-only bridge;
// otherwise profiles are mirrored locally on first use and refreshed once
// older than maxAge (maxAge <= 0 disables the refresh).
func NewBridge(sessions SessionProvider, remote ProfileSource, local ProfileStore, maxAge time.Duration) *Bridge {
	return &Bridge{
		sessions: sessions,
		remote:   remote,
		local:    local,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// CurrentSessionIdentity returns the session user id, or "" without a session.
func (b *Bridge) CurrentSessionIdentity(ctx context.Context) string {
	if b.sessions == nil {
		return ""
	}
	session, err := b.sessions.CurrentSession(ctx)
	if err != nil {
		log.Printf("[identity] session lookup failed: %v", err)
		return ""
	}
	if session == nil {
		return ""
	}
	return session.UserID
}

// CurrentUserProfile resolves the profile of the session user.
func (b *Bridge) CurrentUserProfile(ctx context.Context) *model.User {
	id := b.CurrentSessionIdentity(ctx)
	if id == "" {
		return nil
	}
	if b.local == nil {
		return b.fetchRemote(ctx, id)
	}

	mirrored, err := b.local.FindProfile(ctx, id)
	if err != nil {
		log.Printf("[identity] local profile lookup for %s failed: %v", id, err)
		mirrored = nil
	}
	if mirrored != nil && !b.stale(mirrored) {
		return mirrored
	}

	fresh := b.fetchRemote(ctx, id)
	if fresh == nil {
		// Offline: keep using the mirrored row, stale or not.
		return mirrored
	}

	fresh.UpdatedAt = b.now().UTC()
	if fresh.CreatedAt.IsZero() {
		fresh.CreatedAt = fresh.UpdatedAt
	}
	if err := b.local.UpsertProfile(ctx, fresh); err != nil {
		log.Printf("[identity] mirroring profile %s failed: %v", id, err)
	}
	return fresh
}

// RequireUser is CurrentUserProfile for operations that need an actor.
func (b *Bridge) RequireUser(ctx context.Context) (*model.User, error) {
	user := b.CurrentUserProfile(ctx)
	if user == nil {
		return nil, store.ErrNotAuthenticated
	}
	return user, nil
}

func (b *Bridge) stale(user *model.User) bool {
	if b.maxAge <= 0 {
		return false
	}
	return b.now().Sub(user.UpdatedAt) > b.maxAge
}

func (b *Bridge) fetchRemote(ctx context.Context, id string) *model.User {
	if b.remote == nil {
		return nil
	}
	profiles, err := b.remote.FetchProfiles(ctx, id)
	if err != nil {
		log.Printf("[identity] remote profile lookup for %s failed: %v", id, err)
		return nil
	}
	switch len(profiles) {
	case 0:
		log.Printf("[identity] no profile found for %s", id)
		return nil
	case 1:
	default:
		log.Printf("[identity] warning: %d profiles found for %s, using the first", len(profiles), id)
	}
	user := profiles[0]
	return &user
}
