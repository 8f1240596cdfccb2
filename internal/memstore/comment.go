package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/models"
)

// CommentStore is the in-memory comment log.
type CommentStore struct {
	db *DB
}

// NewCommentStore returns a CommentStore backed by db.
func NewCommentStore(db *DB) *CommentStore {
	return &CommentStore{db: db}
}

// AddComment appends a comment and returns it with its author attached.
func (s *CommentStore) AddComment(ctx context.Context, comment *models.Comment) (_ *models.Comment, err error) {
	defer observe("comments", "add", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c := models.Comment{
		ID:        uuid.New(),
		ArticleID: comment.ArticleID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: s.db.now(),
	}
	s.db.comments = append(s.db.comments, c)

	out := s.withAuthor(c)
	return &out, nil
}

// FindComments lists an article's comments oldest first. An article
// without comments yields an empty slice.
func (s *CommentStore) FindComments(ctx context.Context, articleID uuid.UUID) (_ []models.Comment, err error) {
	defer observe("comments", "find", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := []models.Comment{}
	for _, c := range s.db.comments {
		if c.ArticleID == articleID {
			items = append(items, s.withAuthor(c))
		}
	}
	return items, nil
}

func (s *CommentStore) withAuthor(c models.Comment) models.Comment {
	if u, ok := s.db.users[c.AuthorID]; ok {
		c.Author = &u
	}
	return c
}
