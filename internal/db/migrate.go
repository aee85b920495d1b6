package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"family-hub-go/internal/config"
	familydomain "family-hub-go/internal/domain/family"
	financedomain "family-hub-go/internal/domain/finance"
	tasksdomain "family-hub-go/internal/domain/tasks"
	userdomain "family-hub-go/internal/domain/user"
	"gorm.io/gorm"
)

const migrationsDirName = "migrations"

// AutoMigrate derives the schema from the gorm models. SQLite and tests use
// it; PostgreSQL deployments go through the SQL files applied by Migrate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&familydomain.Family{},
		&userdomain.User{},
		&financedomain.SavingsPayment{},
		&financedomain.Goal{},
		&financedomain.GoalContribution{},
		&tasksdomain.Task{},
		&tasksdomain.Comment{},
	)
}

// migrationLockID keys the advisory lock that serializes concurrent
// migrators (for example two replicas starting at once).
const migrationLockID = 7_204_311

// Migrate applies the pending *.sql files of the module's migrations
// directory in lexical order and returns their names. The whole run is one
// transaction holding a PostgreSQL advisory lock, so a failing file leaves
// the schema untouched.
func Migrate(db *gorm.DB) ([]string, error) {
	dir, err := config.FindUpward(migrationsDirName, true)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	files, err := listMigrations(dir)
	if err != nil {
		return nil, err
	}

	var applied []string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockID).Error; err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}
		if err := ensureSchemaMigrations(tx); err != nil {
			return err
		}

		done, err := appliedMigrations(tx)
		if err != nil {
			return err
		}

		for _, name := range files {
			if done[name] {
				continue
			}
			contents, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			if sql := strings.TrimSpace(string(contents)); sql != "" {
				if err := tx.Exec(sql).Error; err != nil {
					return fmt.Errorf("apply migration %s: %w", name, err)
				}
			}
			if err := tx.Exec("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)", name, time.Now().UTC()).Error; err != nil {
				return err
			}
			applied = append(applied, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func listMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureSchemaMigrations(db *gorm.DB) error {
	return db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`).Error
}

func appliedMigrations(db *gorm.DB) (map[string]bool, error) {
	var names []string
	if err := db.Raw("SELECT filename FROM schema_migrations").Scan(&names).Error; err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(names))
	for _, name := range names {
		done[name] = true
	}
	return done, nil
}
