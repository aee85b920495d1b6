package middleware

import (
	"net/http"
	"time"

	"family-hub-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one access log line per request. Server errors are
// logged at ERROR, client errors at WARN.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				args := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", chimw.GetReqID(r.Context()),
				}

				switch {
				case status >= http.StatusInternalServerError:
					log.Error("http: request", args...)
				case status >= http.StatusBadRequest:
					log.Warn("http: request", args...)
				default:
					log.Info("http: request", args...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
