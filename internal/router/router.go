// Package router sets up all HTTP routes and middleware chains for the
// pressroom API. It organizes routes into public reads and authenticated
// writes with the appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pressroom/internal/handlers"
	"pressroom/internal/middleware"
)

// Deps carries everything the router wires together. RateLimiter and DB
// are optional.
type Deps struct {
	Sessions    middleware.SessionReader
	Users       middleware.UserFinder
	Owners      middleware.OwnershipChecker
	Auth        *handlers.Auth
	Articles    *handlers.Articles
	RateLimiter *middleware.RateLimiter
	DB          handlers.Pinger
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	// Operational endpoints: no session, no rate limit.
	r.Get("/health", handlers.Health(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}
		r.Use(middleware.LoadSession(d.Sessions, d.Users))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Post("/logout", d.Auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", d.Auth.Me)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", d.Articles.List)
			r.With(middleware.RequireAuth).Post("/", d.Articles.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Articles.Get)
				r.Get("/comments", d.Articles.ListComments)
				r.With(middleware.RequireAuth).Post("/comments", d.Articles.AddComment)

				// Owner-only edits.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth)
					r.Use(middleware.RequireArticleOwner(d.Owners, "id"))
					r.Patch("/", d.Articles.Update)
					r.Delete("/", d.Articles.Delete)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"message":"Not Found"}`))
	})

	return r
}
