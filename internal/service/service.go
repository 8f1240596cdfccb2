// Package service holds the article and comment business logic. It turns
// listing intents (category, free-text search) into repository filters,
// answers ownership questions and assembles the article views returned by
// the HTTP layer. Repositories are consumed through the interfaces below
// and implemented by package store (PostgreSQL) and package memstore.
package service

import (
	"context"

	"github.com/google/uuid"

	"pressroom/internal/models"
	"pressroom/internal/query"
)

// ArticleRepository persists articles. Every returned article carries a
// resolved owner. Lookups that produce nothing fail with a
// store.NotFoundError: "Article not found" for single records and
// "No article found" for empty lists.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	FindOneByID(ctx context.Context, id string) (*models.Article, error)
	FindAll(ctx context.Context) ([]models.Article, error)
	FindWithQuery(ctx context.Context, f query.Filter) ([]models.Article, error)
	Update(ctx context.Context, existing *models.Article, patch models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, f query.Filter) (*models.Article, error)
}

// CommentRepository is the append-only comment log. FindComments returns
// an empty slice, not an error, for an article without comments.
type CommentRepository interface {
	AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindComments(ctx context.Context, articleID uuid.UUID) ([]models.Comment, error)
}

// UserRepository stores accounts. Finders return (nil, nil) when there is
// no such user.
type UserRepository interface {
	Create(ctx context.Context, email, username, password string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// CommentSource is the read capability ArticleService needs from the
// comment side.
type CommentSource interface {
	GetArticleComments(ctx context.Context, article *models.Article) ([]models.Comment, error)
}

// ArticleSource is the lookup capability CommentService needs from the
// article side.
type ArticleSource interface {
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
}

// ArticleSourceFunc adapts a plain lookup function, such as a
// repository's FindOneByID, to ArticleSource.
type ArticleSourceFunc func(ctx context.Context, id string) (*models.Article, error)

// GetArticleByID calls f.
func (f ArticleSourceFunc) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	return f(ctx, id)
}
