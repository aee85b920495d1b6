package app

import (
	"net/http"

	"family-hub-go/internal/auth"
	"family-hub-go/internal/config"
	"family-hub-go/internal/db"
	"family-hub-go/internal/domain/dashboard"
	familydomain "family-hub-go/internal/domain/family"
	financedomain "family-hub-go/internal/domain/finance"
	tasksdomain "family-hub-go/internal/domain/tasks"
	userdomain "family-hub-go/internal/domain/user"
	"family-hub-go/internal/repository/inmemory"
	familyrepo "family-hub-go/internal/repository/postgres/family"
	financerepo "family-hub-go/internal/repository/postgres/finance"
	tasksrepo "family-hub-go/internal/repository/postgres/tasks"
	userrepo "family-hub-go/internal/repository/postgres/user"
	"family-hub-go/internal/transport/httpserver"
	"family-hub-go/internal/transport/httpserver/handler"
	commonhandler "family-hub-go/internal/transport/httpserver/handler/common"
	familyhandler "family-hub-go/internal/transport/httpserver/handler/family"
	financehandler "family-hub-go/internal/transport/httpserver/handler/finance"
	taskshandler "family-hub-go/internal/transport/httpserver/handler/tasks"
	"family-hub-go/internal/transport/httpserver/middleware"
	"family-hub-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing router")
	router, err := NewRouter(cfg, dbConn, log)
	if err != nil {
		closeDB(dbConn)
		return nil, err
	}

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router, log)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

// Migrate applies the schema for the configured driver and exits.
func Migrate(log logger.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	closeDB(dbConn)
	return nil
}

// NewRouter builds the service graph on top of an open database.
func NewRouter(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret: cfg.Auth.Secret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn), auth.NewBcryptHasher(cfg.Auth.BcryptCost))
	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), inmemory.NewMembershipCache(), cfg.FamilyCacheTTL)
	finance := financedomain.NewService(financerepo.NewPostgres(dbConn), families)
	tasks := tasksdomain.NewService(tasksrepo.NewPostgres(dbConn), families)
	alerts := dashboard.NewService(families, finance, tasks)

	handlers := handler.New(
		commonhandler.New(users, tokens, log),
		familyhandler.New(families, log),
		financehandler.New(finance, log),
		taskshandler.New(tasks, alerts, log),
	)
	bearer := middleware.NewBearerAuth(tokens, users, log)

	return httpserver.NewRouter(cfg, handlers, bearer, log), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
