// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"

	"pressroom/internal/models"
	"pressroom/internal/query"
)

// ArticleService composes article queries and assembles article views.
type ArticleService struct {
	repo     ArticleRepository
	comments CommentSource
}

// NewArticleService creates an ArticleService. comments supplies the
// comment list for detail views.
func NewArticleService(repo ArticleRepository, comments CommentSource) *ArticleService {
	return &ArticleService{repo: repo, comments: comments}
}

// GetArticles lists articles in their light shape. Which query runs is
// decided by SelectBranch; an empty result is a "No article found" error.
func (s *ArticleService) GetArticles(ctx context.Context, category *models.Category, search *string) ([]ArticleSummary, error) {
	branch := SelectBranch(category, search)
	slog.Debug("listing articles", "branch", branch)

	var (
		articles []models.Article
		err      error
	)
	if f := listingFilter(branch, category, search); f != nil {
		articles, err = s.repo.FindWithQuery(ctx, f)
	} else {
		articles, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return toSummaries(articles), nil
}

// GetArticleByID returns the article with its owner populated.
func (s *ArticleService) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	return s.repo.FindOneByID(ctx, id)
}

// IsOwner reports whether user owns the article with articleID. A missing
// article is an error, not false.
func (s *ArticleService) IsOwner(ctx context.Context, user *models.User, articleID string) (bool, error) {
	article, err := s.GetArticleByID(ctx, articleID)
	if err != nil {
		return false, err
	}
	return article.OwnedBy(user), nil
}

// GetArticleWithComments builds the detail view for an already loaded
// article.
func (s *ArticleService) GetArticleWithComments(ctx context.Context, article *models.Article) (*ArticleDetail, error) {
	comments, err := s.comments.GetArticleComments(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("load article comments: %w", err)
	}
	return toDetail(article, comments)
}

// CreateArticle stores a new article owned by owner and returns its detail
// view. A fresh article has no comments.
func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput, owner *models.User) (*ArticleDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Article{
		Title:    in.Title,
		Content:  in.Content,
		PhotoURL: in.PhotoURL,
		Category: in.Category,
		Owner:    models.ResolvedOwner(owner),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("article created", "id", created.ID, "owner", owner.Username)
	return toDetail(created, nil)
}

// UpdateArticle applies in to existing and returns the new state together
// with the article's comments.
func (s *ArticleService) UpdateArticle(ctx context.Context, existing *models.Article, in UpdateArticleInput) (*ArticleDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, existing, in.Patch())
	if err != nil {
		return nil, err
	}
	return s.GetArticleWithComments(ctx, updated)
}

// DeleteArticle removes the article with id and returns it as it was.
// Its comments are left in place.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) (*models.Article, error) {
	deleted, err := s.repo.Delete(ctx, query.ByID(id))
	if err != nil {
		return nil, err
	}

	slog.Info("article deleted", "id", deleted.ID)
	return deleted, nil
}
