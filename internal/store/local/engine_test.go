package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_OpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DatabaseFile)
	engine := NewEngine(path, nil)
	defer engine.Close()

	db, err := engine.Open(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	for _, table := range Tables {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestEngine_OpenIsIdempotent(t *testing.T) {
	engine := NewEngine(filepath.Join(t.TempDir(), DatabaseFile), nil)
	defer engine.Close()

	first, err := engine.Open(context.Background())
	require.NoError(t, err)
	second, err := engine.Open(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestEngine_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), DatabaseFile)
	ctx := context.Background()

	engine := NewEngine(path, nil)
	db, err := engine.Open(ctx)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, NewProfileStore(db).UpsertProfile(ctx, &model.User{
		ID: "u-1", Username: "ana", Name: "Ana", Role: model.RoleStaff, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, engine.Close())

	db, err = engine.Open(ctx)
	require.NoError(t, err)
	defer engine.Close()
	user, err := NewProfileStore(db).FindProfile(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana", user.Username)
}

func TestEngine_CloseTwice(t *testing.T) {
	engine := NewEngine(filepath.Join(t.TempDir(), DatabaseFile), nil)
	_, err := engine.Open(context.Background())
	require.NoError(t, err)

	assert.NoError(t, engine.Close())
	assert.NoError(t, engine.Close())
}

func TestEngine_CloseWithoutOpen(t *testing.T) {
	engine := NewEngine(filepath.Join(t.TempDir(), DatabaseFile), nil)
	assert.NoError(t, engine.Close())
}

func TestEngine_UnavailableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	engine := NewEngine(filepath.Join(blocker, DatabaseFile), nil)
	_, err := engine.Open(context.Background())
	assert.ErrorIs(t, err, store.ErrEngineUnavailable)
}

type fixedPath struct {
	path string
	err  error
}

func (f fixedPath) RequestDatabasePath(context.Context) (string, error) { return f.path, f.err }

func TestResolvePath(t *testing.T) {
	ctx := context.Background()

	p, err := ResolvePath(ctx, "/data/pos", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/pos", DatabaseFile), p)

	p, err = ResolvePath(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, DatabaseFile, filepath.Base(p))

	p, err = ResolvePath(ctx, "/ignored", fixedPath{path: "/sandbox/pos.db"})
	require.NoError(t, err)
	assert.Equal(t, "/sandbox/pos.db", p)

	_, err = ResolvePath(ctx, "", fixedPath{err: errors.New("ipc closed")})
	assert.Error(t, err)

	_, err = ResolvePath(ctx, "", fixedPath{})
	assert.Error(t, err)
}

func TestProfileUpsertRefreshes(t *testing.T) {
	db := openTestDB(t)
	profiles := NewProfileStore(db)
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	missing, err := profiles.FindProfile(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, profiles.UpsertProfile(ctx, &model.User{
		ID: "u-1", Username: "ana", Name: "Ana", Role: model.RoleStaff, CreatedAt: created, UpdatedAt: created,
	}))
	require.NoError(t, profiles.UpsertProfile(ctx, &model.User{
		ID: "u-1", Username: "ana.b", Name: "Ana B", Role: model.RoleAdmin, CreatedAt: created, UpdatedAt: created.Add(time.Hour),
	}))

	user, err := profiles.FindProfile(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana.b", user.Username)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.True(t, created.Add(time.Hour).Equal(user.UpdatedAt))
}
