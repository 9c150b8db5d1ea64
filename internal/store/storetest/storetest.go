// Package storetest provides throwaway local stores for tests of packages
// built on store.DataStore.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/store"
	"retailpos/internal/store/local"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Identity always resolves to User. A nil User is an anonymous caller.
type Identity struct {
	User *model.User
}

func (i Identity) CurrentSessionIdentity(context.Context) string {
	if i.User == nil {
		return ""
	}
	return i.User.ID
}

func (i Identity) CurrentUserProfile(context.Context) *model.User { return i.User }

func (i Identity) RequireUser(context.Context) (*model.User, error) {
	if i.User == nil {
		return nil, store.ErrNotAuthenticated
	}
	return i.User, nil
}

// OpenDB opens a fresh embedded database under t.TempDir.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	engine := local.NewEngine(filepath.Join(t.TempDir(), local.DatabaseFile), nil)
	db, err := engine.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return db
}

// NewLocal returns a local store acting as a freshly mirrored user with role.
func NewLocal(t testing.TB, role string) (*local.Store, *model.User) {
	t.Helper()
	db := OpenDB(t)
	now := time.Now().UTC()
	user := &model.User{
		ID:        local.NewID(),
		Username:  "user-" + role,
		Name:      "Test " + role,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, local.NewProfileStore(db).UpsertProfile(context.Background(), user))
	return local.NewStore(db, Identity{User: user}), user
}
