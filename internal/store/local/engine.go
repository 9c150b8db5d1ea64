// Package local implements the data store on an embedded SQLite file.
package local

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"retailpos/internal/store"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Engine owns the database file and a single long-lived handle.
type Engine struct {
	path   string
	logger logger.Interface

	mu sync.Mutex
	db *gorm.DB
}

// NewEngine prepares an engine for the file at path. Nothing is opened yet.
// A nil gormLogger keeps SQL logging silent.
func NewEngine(path string, gormLogger logger.Interface) *Engine {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	return &Engine{path: path, logger: gormLogger}
}

func (e *Engine) Path() string { return e.path }

// Open returns the shared handle, creating the file and schema on first use.
// Later calls return the cached handle. Any failure to load or connect the
// engine wraps store.ErrEngineUnavailable.
func (e *Engine) Open(ctx context.Context) (*gorm.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db != nil {
		return e.db, nil
	}

	if dir := filepath.Dir(e.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create data dir: %v", store.ErrEngineUnavailable, err)
		}
	}

	dsn := e.path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  e.logger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrEngineUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrEngineUnavailable, err)
	}
	// One connection keeps pragmas and writes on a single handle.
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", store.ErrEngineUnavailable, err)
	}
	for _, stmt := range schemaStatements {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	log.Printf("[local] database opened at %s", e.path)
	e.db = db
	return db, nil
}

// Close releases the handle. Closing a closed engine is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}
	sqlDB, err := e.db.DB()
	e.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewID returns a random v4 UUID in canonical dashed form, the same shape the
// hosted backend uses for primary keys.
func NewID() string {
	return uuid.NewString()
}

// mapError turns sqlite constraint failures into store.ErrConstraint and
// missing rows into store.ErrNotFound. Other errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", store.ErrConstraint, err)
	}
	return err
}
