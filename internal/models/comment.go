package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reader's reply attached to an article. Comments are
// append-only: they are never edited once stored.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Author    *User     `json:"author,omitempty"` // Populated on reads
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
