// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/service"
	"pressroom/internal/session"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    service.UserRepository
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users service.UserRepository) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req registerRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Username, validation.Required, validation.Length(3, 50), is.Alphanumeric),
		validation.Field(&req.Password, validation.Required, validation.Length(minPasswordLen, maxPasswordLen)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

// authResponse is returned by register and login. Token can be sent back
// as a bearer token by clients that do not keep cookies.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.users.Create(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)

	a.signIn(w, r, user, http.StatusCreated)
}

// Login verifies credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Validate credentials.
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeMessage(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	a.signIn(w, r, user, http.StatusOK)
}

// Logout destroys the session. It succeeds for anonymous callers too.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, middleware.UserFromCtx(r.Context()))
}

func (a *Auth) signIn(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, status, authResponse{Token: token, User: user})
}
