package db

import (
	"fmt"

	"family-hub-go/pkg/logger"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewSQLite opens a single-connection SQLite database. One connection keeps
// ":memory:" databases shared between queries and serializes writers.
func NewSQLite(path string, log logger.Logger) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	log.Info("db: opening sqlite", "path", path)

	gormDB, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	log.Info("db: connected", "driver", DriverSQLite)
	return gormDB, nil
}
