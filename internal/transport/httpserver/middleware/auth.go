package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	userdomain "family-hub-go/internal/domain/user"
	"family-hub-go/pkg/logger"
)

type contextKey int

const userIDKey contextKey = iota

type TokenVerifier interface {
	Verify(raw string) (string, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, userID string) (*userdomain.User, error)
}

// BearerAuth resolves the acting user from an "Authorization: Bearer" token.
type BearerAuth struct {
	tokens TokenVerifier
	users  UserLookup
	log    logger.Logger
}

func NewBearerAuth(tokens TokenVerifier, users UserLookup, log logger.Logger) *BearerAuth {
	return &BearerAuth{tokens: tokens, users: users, log: log}
}

func (a *BearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
			return
		}

		userID, err := a.tokens.Verify(token)
		if err != nil {
			a.log.Debug("auth: token rejected", "error", err.Error())
			unauthorized(w)
			return
		}

		account, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				a.log.BusinessError("auth: token subject not found", err, "user_id", userID)
				unauthorized(w)
				return
			}
			a.log.InternalError("auth: load user failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), account.ID)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
