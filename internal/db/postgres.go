package db

import (
	"fmt"
	"time"

	"family-hub-go/internal/config"
	"family-hub-go/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
)

// Open connects to the configured driver and applies the schema.
func Open(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)
	switch cfg.Driver {
	case DriverSQLite:
		conn, err = NewSQLite(cfg.SQLitePath, log)
	case DriverPostgres, "":
		conn, err = NewPostgres(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate || cfg.Driver == DriverSQLite {
		log.Info("db: running auto migrate", "driver", cfg.Driver)
		if err := AutoMigrate(conn); err != nil {
			closeConn(conn)
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		return conn, nil
	}

	applied, err := Migrate(conn)
	if err != nil {
		closeConn(conn)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("db: sql migrations applied", "count", len(applied), "files", applied)
	return conn, nil
}

func NewPostgres(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg.DSN != "" {
		log.Info("db: connecting using DSN")
	} else {
		log.Info("db: connecting to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = defaultConnMaxLifetime
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info("db: connected", "driver", DriverPostgres)
	return gormDB, nil
}

// TranslateError makes duplicate-key failures surface as gorm.ErrDuplicatedKey
// on every driver.
func gormConfig(log logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         newQueryLogger(log),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func closeConn(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
