package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the hosted Postgres pool using GORM and pings it.
func NewConnection(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := open(dsn, gormLogger, false)
	if err != nil {
		return nil, err
	}
	log.Println("[database] connected to PostgreSQL")
	return db, nil
}

// NewLazyConnection builds the pool without dialing. Only a malformed DSN
// fails here; an unreachable server surfaces on the first query.
func NewLazyConnection(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := open(dsn, gormLogger, true)
	if err != nil {
		return nil, err
	}
	log.Println("[database] PostgreSQL pool ready, dialing on first use")
	return db, nil
}

func open(dsn string, gormLogger logger.Interface, lazy bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               gormLogger,
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: lazy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Logger maps a DB_LOG_LEVEL value (silent, error, warn, info) to a gorm logger.
func Logger(level string) logger.Interface {
	lvl := logger.Silent
	switch strings.ToLower(level) {
	case "error":
		lvl = logger.Error
	case "warn":
		lvl = logger.Warn
	case "info":
		lvl = logger.Info
	}
	return logger.Default.LogMode(lvl)
}
