package memstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/metrics"
	"pressroom/internal/models"
	"pressroom/internal/query"
	"pressroom/internal/store"
)

// ArticleStore is the in-memory article repository.
type ArticleStore struct {
	db *DB
}

// NewArticleStore returns an ArticleStore backed by db.
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func observe(collection, operation string, start time.Time, err *error) {
	metrics.ObserveStoreOp(collection, operation, start, *err, store.ErrNotFound)
}

// Create appends the article and assigns its ID and timestamps. An owner
// that does not exist is rejected and nothing is stored.
func (s *ArticleStore) Create(ctx context.Context, article *models.Article) (_ *models.Article, err error) {
	defer observe("articles", "create", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[article.Owner.ID]; !ok {
		return nil, fmt.Errorf("create article: %w", store.ErrOwnerUnresolved)
	}

	now := s.db.now()
	a := cloneArticle(*article)
	a.ID = uuid.New()
	a.Owner = models.UnresolvedOwner(article.Owner.ID)
	a.CreatedAt = now
	a.UpdatedAt = now
	s.db.articles = append(s.db.articles, a)

	out := s.db.resolveOwner(a)
	return store.ArticleOrNotFound(&out)
}

// FindOneByID returns the article with the given ID.
func (s *ArticleStore) FindOneByID(ctx context.Context, id string) (_ *models.Article, err error) {
	defer observe("articles", "find_one_by_id", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	parsed, perr := uuid.Parse(id)
	if perr != nil {
		return nil, store.NotFound(store.ArticleNotFound)
	}
	i := s.indexOf(parsed)
	if i < 0 {
		return nil, store.NotFound(store.ArticleNotFound)
	}
	out := s.db.resolveOwner(s.db.articles[i])
	return store.ArticleOrNotFound(&out)
}

// FindAll returns every article in insertion order.
func (s *ArticleStore) FindAll(ctx context.Context) (_ []models.Article, err error) {
	defer observe("articles", "find_all", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	items := make([]models.Article, 0, len(s.db.articles))
	for _, a := range s.db.articles {
		items = append(items, s.db.resolveOwner(a))
	}
	return store.ArticlesOrNotFound(items)
}

// FindWithQuery joins each article with its owner and keeps those
// matching f.
func (s *ArticleStore) FindWithQuery(ctx context.Context, f query.Filter) (_ []models.Article, err error) {
	defer observe("articles", "find_with_query", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var items []models.Article
	for _, a := range s.db.articles {
		joined := s.db.resolveOwner(a)
		if f.Match(&joined) {
			items = append(items, joined)
		}
	}
	return store.ArticlesOrNotFound(items)
}

// Update merges patch into the stored article with existing.ID.
func (s *ArticleStore) Update(ctx context.Context, existing *models.Article, patch models.ArticlePatch) (_ *models.Article, err error) {
	defer observe("articles", "update", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := s.indexOf(existing.ID)
	if i < 0 {
		return nil, store.NotFound(store.ArticleNotFound)
	}
	stored := cloneArticle(s.db.articles[i])
	patch.Apply(&stored)
	stored = cloneArticle(stored)
	stored.UpdatedAt = s.db.now()
	s.db.articles[i] = stored

	out := s.db.resolveOwner(stored)
	return store.ArticleOrNotFound(&out)
}

// Delete removes the first article in insertion order matching f.
func (s *ArticleStore) Delete(ctx context.Context, f query.Filter) (_ *models.Article, err error) {
	defer observe("articles", "delete", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, a := range s.db.articles {
		joined := s.db.resolveOwner(a)
		if !f.Match(&joined) {
			continue
		}
		s.db.articles = slices.Delete(s.db.articles, i, i+1)
		return store.ArticleOrNotFound(&joined)
	}
	return nil, store.NotFound(store.ArticleNotFound)
}

// indexOf returns the position of the article with id, or -1. Callers
// must hold the lock.
func (s *ArticleStore) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.db.articles, func(a models.Article) bool {
		return a.ID == id
	})
}
