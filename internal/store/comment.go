package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/models"
)

// CommentStore handles the append-only comment log.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `c.id, c.article_id, c.author_id, c.content, c.created_at,
	u.id, u.email, u.username, u.created_at, u.updated_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var (
		c        models.Comment
		userID   uuid.NullUUID
		email    sql.NullString
		username sql.NullString
		uCreated sql.NullTime
		uUpdated sql.NullTime
	)
	err := scanner.Scan(
		&c.ID, &c.ArticleID, &c.AuthorID, &c.Content, &c.CreatedAt,
		&userID, &email, &username, &uCreated, &uUpdated,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		c.Author = &models.User{
			ID:        userID.UUID,
			Email:     email.String,
			Username:  username.String,
			CreatedAt: uCreated.Time,
			UpdatedAt: uUpdated.Time,
		}
	}
	return &c, nil
}

// AddComment appends a comment and returns it with its author attached.
func (s *CommentStore) AddComment(ctx context.Context, comment *models.Comment) (_ *models.Comment, err error) {
	defer observe("comments", "add", time.Now(), &err)

	row := s.db.QueryRowContext(ctx, `
		WITH c AS (
			INSERT INTO comments (article_id, author_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, article_id, author_id, content, created_at
		)
		SELECT `+commentColumns+` FROM c LEFT JOIN users u ON u.id = c.author_id
	`, comment.ArticleID, comment.AuthorID, comment.Content)
	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return created, nil
}

// FindComments lists the comments on an article oldest first. An article
// without comments yields an empty slice.
func (s *CommentStore) FindComments(ctx context.Context, articleID uuid.UUID) (_ []models.Comment, err error) {
	defer observe("comments", "find", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c LEFT JOIN users u ON u.id = c.author_id
		WHERE c.article_id = $1
		ORDER BY c.seq
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
