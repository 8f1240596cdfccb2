// Package main is the entry point for the pressroom API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pressroom/internal/cache"
	"pressroom/internal/config"
	"pressroom/internal/database"
	"pressroom/internal/handlers"
	"pressroom/internal/memstore"
	"pressroom/internal/metrics"
	"pressroom/internal/middleware"
	"pressroom/internal/router"
	"pressroom/internal/service"
	"pressroom/internal/session"
	"pressroom/internal/storage"
	"pressroom/internal/store"
)

// repositories is the backend selected by STORE_DRIVER.
type repositories struct {
	users    service.UserRepository
	articles service.ArticleRepository
	comments service.CommentRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	ctx := context.Background()

	var (
		repos repositories
		db    *sql.DB
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err = openPostgres(ctx, cfg)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repos = repositories{
			users:    store.NewUserStore(db),
			articles: store.NewArticleStore(db),
			comments: store.NewCommentStore(db),
		}
	case config.DriverMemory:
		mem := memstore.New()
		users := memstore.NewUserStore(mem)
		articles := memstore.NewArticleStore(mem)
		if cfg.IsDev() {
			if err := database.SeedRepositories(ctx, users, articles); err != nil {
				slog.Error("failed to seed memory store", "error", err)
				os.Exit(1)
			}
		}
		repos = repositories{users: users, articles: articles, comments: memstore.NewCommentStore(mem)}
		slog.Warn("using in-memory store; data is lost on restart")
	}

	// Valkey backs sessions and the listing cache. Without it sessions
	// live in process memory and listings are not cached.
	secureCookies := !cfg.IsDev()
	var (
		sessionStore *session.Store
		listingCache handlers.ListingCache
	)
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	switch {
	case err == nil:
		defer valkeyClient.Close()
		sessionStore = session.NewStore(valkeyClient, secureCookies)
		listingCache = newListingCache(valkeyClient, cfg.ListingCacheTTL)
	case cfg.IsProduction():
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	default:
		slog.Warn("valkey unavailable; using in-memory sessions without listing cache", "error", err)
		sessionStore = session.NewMemoryStore(secureCookies)
	}
	sessionStore.SetTTL(cfg.SessionTTL)

	// Connect to S3-compatible object storage (optional; the API works without it).
	var photos handlers.PhotoStore
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	switch {
	case err != nil:
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	case storageClient != nil:
		photos = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	default:
		slog.Warn("s3 storage not configured; photo uploads disabled")
	}

	// Wire services. The comment side only needs a lookup function, so it
	// is built first and handed to the article service.
	comments := service.NewCommentService(repos.comments, service.ArticleSourceFunc(repos.articles.FindOneByID))
	articles := service.NewArticleService(repos.articles, comments)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	deps := router.Deps{
		Sessions:    sessionStore,
		Users:       repos.users,
		Owners:      articles,
		Auth:        handlers.NewAuth(sessionStore, repos.users),
		Articles:    handlers.NewArticles(articles, comments, listingCache, photos),
		RateLimiter: rateLimiter,
	}
	if db != nil {
		deps.DB = db
	}
	r := router.New(deps)

	// Create the HTTP server with sensible timeouts. WriteTimeout leaves
	// room for photo uploads to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openPostgres connects, migrates, registers pool metrics and, in
// development, seeds the database.
func openPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := metrics.RegisterDBStats(db); err != nil {
		db.Close()
		return nil, err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// newListingCache returns nil when caching is disabled by a zero TTL.
func newListingCache(client *redis.Client, ttl time.Duration) handlers.ListingCache {
	if ttl <= 0 {
		slog.Info("listing cache disabled")
		return nil
	}
	return cache.NewListingCache(client, ttl)
}
