package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"family-hub-go/internal/config"
	"family-hub-go/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 64 << 10
)

// New keeps the connection deadlines past the per-request handler timeout.
func New(cfg config.Config, handler http.Handler, log logger.Logger) *http.Server {
	writeTimeout := time.Duration(0)
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + 5*time.Second
	}

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       writeTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    maxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Slog().Handler(), slog.LevelError),
	}
}
