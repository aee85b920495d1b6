package common

import (
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	userdomain "family-hub-go/internal/domain/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	FamilyID  *string   `json:"family_id"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidJSON(w)
		return
	}

	user, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrEmailTaken):
			h.log.BusinessError("auth.register: email taken", err)
			writeError(w, http.StatusBadRequest, "email_taken", "email already registered")
		case errors.Is(err, userdomain.ErrInvalidEmail),
			errors.Is(err, userdomain.ErrPasswordTooShort),
			errors.Is(err, userdomain.ErrPasswordTooLong),
			errors.Is(err, userdomain.ErrNameRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("auth.register: register failed", err)
			WriteInternalError(w)
		}
		return
	}

	h.log.Info("auth.register: user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login accepts a JSON body or the OAuth2 password form.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := parseLoginRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err)
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password")
			return
		}
		h.log.InternalError("auth.login: authenticate failed", err)
		WriteInternalError(w)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.log.InternalError("auth.login: issue token failed", err, "user_id", user.ID)
		WriteInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}
		h.log.InternalError("auth.me: get user failed", err, "user_id", userID)
		WriteInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func parseLoginRequest(r *http.Request) (loginRequest, bool) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseLoginForm(r, mediaType); err != nil {
			return req, false
		}
		req.Username = r.PostForm.Get("username")
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
	default:
		if err := decodeJSON(r, &req); err != nil {
			return req, false
		}
	}

	if strings.TrimSpace(req.Email) == "" {
		req.Email = req.Username
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return req, false
	}
	return req, true
}

func toUserResponse(user *userdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		FamilyID:  user.FamilyID,
		CreatedAt: user.CreatedAt,
	}
}

// maxLoginFormBytes caps the in-memory part of a multipart login form.
const maxLoginFormBytes = 64 << 10

func parseLoginForm(r *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxLoginFormBytes)
	}
	return r.ParseForm()
}
