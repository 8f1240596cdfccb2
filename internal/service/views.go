package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/markdown"
	"pressroom/internal/models"
)

// OwnerView is the public face of a user attached to articles and comments.
type OwnerView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ArticleSummary is the light listing shape: no body and no comments.
type ArticleSummary struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	PhotoURL  *string          `json:"photo_url"`
	Category  *models.Category `json:"category"`
	Owner     OwnerView        `json:"owner"`
	CreatedAt time.Time        `json:"created_at"`
}

// CommentView is a comment as shown under an article.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Author    OwnerView `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleDetail is the full article view with rendered content and
// comments.
type ArticleDetail struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	ContentHTML string           `json:"content_html"`
	PhotoURL    *string          `json:"photo_url"`
	Category    *models.Category `json:"category"`
	Owner       OwnerView        `json:"owner"`
	Comments    []CommentView    `json:"comments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func ownerView(o models.OwnerRef) OwnerView {
	v := OwnerView{ID: o.ID}
	if u := o.User(); u != nil {
		v.Username = u.Username
	}
	return v
}

func toSummary(a *models.Article) ArticleSummary {
	return ArticleSummary{
		ID:        a.ID,
		Title:     a.Title,
		PhotoURL:  a.PhotoURL,
		Category:  a.Category,
		Owner:     ownerView(a.Owner),
		CreatedAt: a.CreatedAt,
	}
}

func toSummaries(articles []models.Article) []ArticleSummary {
	out := make([]ArticleSummary, len(articles))
	for i := range articles {
		out[i] = toSummary(&articles[i])
	}
	return out
}

// ToCommentView maps a stored comment to its public shape.
func ToCommentView(c models.Comment) CommentView {
	v := CommentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
	v.Author.ID = c.AuthorID
	if c.Author != nil {
		v.Author.Username = c.Author.Username
	}
	return v
}

func toDetail(a *models.Article, comments []models.Comment) (*ArticleDetail, error) {
	html, err := markdown.ToHTML(a.Content)
	if err != nil {
		return nil, fmt.Errorf("render article content: %w", err)
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = ToCommentView(c)
	}

	return &ArticleDetail{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		ContentHTML: html,
		PhotoURL:    a.PhotoURL,
		Category:    a.Category,
		Owner:       ownerView(a.Owner),
		Comments:    views,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}, nil
}
