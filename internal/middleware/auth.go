// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressroom/internal/models"
	"pressroom/internal/session"
	"pressroom/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// UserKey is the context key for the authenticated user.
	UserKey contextKey = "user"
)

// SessionReader loads the session attached to a request.
type SessionReader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// UserFinder resolves the user behind a session. It returns (nil, nil)
// for a user that no longer exists.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// OwnershipChecker answers whether a user owns an article.
type OwnershipChecker interface {
	IsOwner(ctx context.Context, user *models.User, articleID string) (bool, error)
}

// LoadSession retrieves the session and its user and stores both in the
// request context. Downstream handlers can access them via SessionFromCtx
// and UserFromCtx. This middleware does NOT enforce authentication; it
// only loads the session if one exists.
func LoadSession(sessions SessionReader, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := sessions.Get(r.Context(), r)
			if err != nil {
				// Log but don't block; treat as unauthenticated.
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if data == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), data.UserID)
			if err != nil {
				slog.Error("session user lookup failed", "user_id", data.UserID, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				// Account removed since login.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, data)
			ctx = context.WithValue(ctx, UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated user with 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			writeError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireArticleOwner lets the request through only if the authenticated
// user owns the article named by the URL parameter param. A missing
// article is 404 and somebody else's article is 403. Must be applied
// after RequireAuth.
func RequireArticleOwner(checker OwnershipChecker, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil {
				writeError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}

			id := chi.URLParam(r, param)
			owner, err := checker.IsOwner(r.Context(), user, id)
			var nf *store.NotFoundError
			switch {
			case errors.As(err, &nf):
				writeError(w, r, http.StatusNotFound, nf.Subject)
				return
			case err != nil:
				slog.Error("ownership check failed", "article_id", id, "error", err)
				writeError(w, r, http.StatusInternalServerError, "Internal Server Error")
				return
			case !owner:
				writeError(w, r, http.StatusForbidden, "You are not the owner of this article")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// UserFromCtx returns the authenticated user, or nil.
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(UserKey).(*models.User)
	return u
}

// WithUser returns a copy of ctx carrying user as the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
