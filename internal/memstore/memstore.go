// Package memstore is an in-memory backend implementing the same
// repository contracts as package store. It keeps one ordered collection
// per entity behind a single lock, so every call is atomic with respect
// to the others. It is used for STORE_DRIVER=memory and in tests.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/models"
)

// DB holds every collection. Articles and comments are kept in insertion
// order; articles store only the owner ID and are joined on read.
type DB struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	articles []models.Article
	comments []models.Comment

	now func() time.Time
}

// New returns an empty database.
func New() *DB {
	return &DB{
		users: make(map[uuid.UUID]models.User),
		now:   time.Now,
	}
}

// resolveOwner joins an article with its owner. Callers must hold mu. An
// owner that no longer exists leaves the reference unresolved.
func (db *DB) resolveOwner(a models.Article) models.Article {
	out := cloneArticle(a)
	if u, ok := db.users[a.Owner.ID]; ok {
		out.Owner = models.ResolvedOwner(&u)
	} else {
		out.Owner = models.UnresolvedOwner(a.Owner.ID)
	}
	return out
}

func cloneArticle(a models.Article) models.Article {
	if a.PhotoURL != nil {
		v := *a.PhotoURL
		a.PhotoURL = &v
	}
	if a.Category != nil {
		v := *a.Category
		a.Category = &v
	}
	return a
}
