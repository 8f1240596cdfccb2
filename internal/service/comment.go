package service

import (
	"context"

	"pressroom/internal/models"
)

// CommentService reads and appends article comments.
type CommentService struct {
	repo     CommentRepository
	articles ArticleSource
}

// NewCommentService creates a CommentService. articles is used to check
// that an article exists before commenting on it.
func NewCommentService(repo CommentRepository, articles ArticleSource) *CommentService {
	return &CommentService{repo: repo, articles: articles}
}

// GetArticleComments returns the comments on article oldest first, or an
// empty slice. It never reports not found.
func (s *CommentService) GetArticleComments(ctx context.Context, article *models.Article) ([]models.Comment, error) {
	return s.repo.FindComments(ctx, article.ID)
}

// ListComments resolves articleID and returns its comments. An unknown
// article fails with "Article not found".
func (s *CommentService) ListComments(ctx context.Context, articleID string) ([]models.Comment, error) {
	article, err := s.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return s.GetArticleComments(ctx, article)
}

// AddComment appends a comment by author to the article with articleID.
func (s *CommentService) AddComment(ctx context.Context, articleID string, author *models.User, content string) (*models.Comment, error) {
	if err := (commentInput{Content: content}).Validate(); err != nil {
		return nil, err
	}

	article, err := s.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	return s.repo.AddComment(ctx, &models.Comment{
		ArticleID: article.ID,
		AuthorID:  author.ID,
		Author:    author,
		Content:   content,
	})
}
