package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pressroom/internal/models"
)

// seedPassword is shared by every development account.
const seedPassword = "password"

// seedUser is a development account created on an empty database.
type seedUser struct {
	email    string
	username string
}

var seedUsers = []seedUser{
	{email: "alice@pressroom.local", username: "alice"},
	{email: "bob@pressroom.local", username: "bob"},
}

// seedArticle is owned by seedUsers[owner]. An empty category leaves the
// article uncategorized.
type seedArticle struct {
	owner    int
	title    string
	content  string
	category string
}

var seedArticles = []seedArticle{
	{owner: 0, title: "Getting started with Go", content: "Go is a small language with a **big** standard library.", category: "tech"},
	{owner: 0, title: "Weekend in Lisbon", content: "Pastel de nata, trams and hills.", category: "travel"},
	{owner: 1, title: "Sourdough notes", content: "Feed the starter twice a day.", category: "food"},
	{owner: 1, title: "Untitled thoughts", content: "Some things do not fit a category."},
}

// Seed populates the database with development data. It creates two users
// and a handful of articles if no users exist yet. Both accounts use the
// password "password".
func Seed(ctx context.Context, db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	ids := make([]string, len(seedUsers))
	for i, u := range seedUsers {
		err := db.QueryRowContext(ctx, `
			INSERT INTO users (email, username, password_hash)
			VALUES ($1, $2, $3)
			RETURNING id
		`, u.email, u.username, string(hash)).Scan(&ids[i])
		if err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.username, err)
		}
	}

	for _, a := range seedArticles {
		var category *string
		if a.category != "" {
			category = &a.category
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO articles (title, content, category, owner_id)
			VALUES ($1, $2, $3, $4)
		`, a.title, a.content, category, ids[a.owner])
		if err != nil {
			return fmt.Errorf("seed insert article %q: %w", a.title, err)
		}
	}

	slog.Info("database seeded with development data",
		"users", len(seedUsers),
		"articles", len(seedArticles),
		"password", seedPassword,
	)

	return nil
}

// UserCreator creates accounts from plain-text passwords.
type UserCreator interface {
	Create(ctx context.Context, email, username, password string) (*models.User, error)
}

// ArticleCreator stores new articles.
type ArticleCreator interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
}

// SeedRepositories loads the same development data as Seed through the
// repository interfaces. It is used by the in-memory backend, which starts
// empty on every run.
func SeedRepositories(ctx context.Context, users UserCreator, articles ArticleCreator) error {
	owners := make([]*models.User, len(seedUsers))
	for i, u := range seedUsers {
		created, err := users.Create(ctx, u.email, u.username, seedPassword)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
		owners[i] = created
	}

	for _, a := range seedArticles {
		category, err := models.ParseCategory(a.category)
		if err != nil {
			return fmt.Errorf("seed article %q: %w", a.title, err)
		}
		_, err = articles.Create(ctx, &models.Article{
			Title:    a.title,
			Content:  a.content,
			Category: category,
			Owner:    models.ResolvedOwner(owners[a.owner]),
		})
		if err != nil {
			return fmt.Errorf("seed article %q: %w", a.title, err)
		}
	}

	slog.Info("repositories seeded with development data",
		"users", len(seedUsers),
		"articles", len(seedArticles),
	)
	return nil
}
