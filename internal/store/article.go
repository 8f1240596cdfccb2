// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/metrics"
	"pressroom/internal/models"
	"pressroom/internal/query"
)

// ArticleStore reads and writes articles. Every read joins the owner so
// returned articles always carry a resolved OwnerRef.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore returns a new ArticleStore.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// articleColumns selects the joined article ⋈ owner shape. Queries alias
// the article relation as "a" and the owner as "u".
const articleColumns = `a.id, a.title, a.content, a.photo_url, a.category, a.owner_id,
	a.created_at, a.updated_at,
	u.id, u.email, u.username, u.created_at, u.updated_at`

// articleReturning is the RETURNING list for writes; the CTE holding it is
// then joined like the base table.
const articleReturning = `id, title, content, photo_url, category, owner_id, created_at, updated_at`

const articleJoin = `LEFT JOIN users u ON u.id = a.owner_id`

// scanArticle scans a joined row. A missing owner leaves the OwnerRef
// unresolved so the retrieval policy can flag it.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var (
		a        models.Article
		category sql.NullString
		ownerID  uuid.UUID
		userID   uuid.NullUUID
		email    sql.NullString
		username sql.NullString
		uCreated sql.NullTime
		uUpdated sql.NullTime
	)
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Content, &a.PhotoURL, &category, &ownerID,
		&a.CreatedAt, &a.UpdatedAt,
		&userID, &email, &username, &uCreated, &uUpdated,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		c := models.Category(category.String)
		a.Category = &c
	}

	if userID.Valid {
		a.Owner = models.ResolvedOwner(&models.User{
			ID:        userID.UUID,
			Email:     email.String,
			Username:  username.String,
			CreatedAt: uCreated.Time,
			UpdatedAt: uUpdated.Time,
		})
	} else {
		a.Owner = models.UnresolvedOwner(ownerID)
	}
	return &a, nil
}

func categoryArg(c *models.Category) any {
	if c == nil {
		return nil
	}
	return string(*c)
}

func observe(collection, operation string, start time.Time, err *error) {
	metrics.ObserveStoreOp(collection, operation, start, *err, ErrNotFound)
}

// Create inserts a new article and returns it with its ID and owner.
func (s *ArticleStore) Create(ctx context.Context, article *models.Article) (_ *models.Article, err error) {
	defer observe("articles", "create", time.Now(), &err)

	row := s.db.QueryRowContext(ctx, `
		WITH a AS (
			INSERT INTO articles (title, content, photo_url, category, owner_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+articleReturning+`
		)
		SELECT `+articleColumns+` FROM a `+articleJoin,
		article.Title, article.Content, article.PhotoURL, categoryArg(article.Category), article.Owner.ID,
	)
	created, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return ArticleOrNotFound(created)
}

// FindOneByID returns the article with the given ID. An ID that is not a
// valid UUID cannot match any record and is reported as not found.
func (s *ArticleStore) FindOneByID(ctx context.Context, id string) (_ *models.Article, err error) {
	defer observe("articles", "find_one_by_id", time.Now(), &err)

	parsed, perr := uuid.Parse(id)
	if perr != nil {
		return nil, NotFound(ArticleNotFound)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles a `+articleJoin+` WHERE a.id = $1`, parsed)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound(ArticleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return ArticleOrNotFound(a)
}

// FindAll returns every article in insertion order.
func (s *ArticleStore) FindAll(ctx context.Context) (_ []models.Article, err error) {
	defer observe("articles", "find_all", time.Now(), &err)

	items, err := s.list(ctx, `SELECT `+articleColumns+` FROM articles a `+articleJoin+` ORDER BY a.seq`)
	if err != nil {
		return nil, fmt.Errorf("find all articles: %w", err)
	}
	return ArticlesOrNotFound(items)
}

// FindWithQuery returns the articles matching f, evaluated after the owner
// join so the filter may reference the owner's username.
func (s *ArticleStore) FindWithQuery(ctx context.Context, f query.Filter) (_ []models.Article, err error) {
	defer observe("articles", "find_with_query", time.Now(), &err)

	var args query.Args
	where := f.SQL(&args)
	items, err := s.list(ctx,
		`SELECT `+articleColumns+` FROM articles a `+articleJoin+` WHERE `+where+` ORDER BY a.seq`,
		args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("find articles with query: %w", err)
	}
	return ArticlesOrNotFound(items)
}

// Update merges patch into the stored record identified by existing.ID.
// Nil patch fields keep their stored value.
func (s *ArticleStore) Update(ctx context.Context, existing *models.Article, patch models.ArticlePatch) (_ *models.Article, err error) {
	defer observe("articles", "update", time.Now(), &err)

	row := s.db.QueryRowContext(ctx, `
		WITH a AS (
			UPDATE articles SET
				title = COALESCE($1, title),
				content = COALESCE($2, content),
				photo_url = COALESCE($3, photo_url),
				category = COALESCE($4, category),
				updated_at = NOW()
			WHERE id = $5
			RETURNING `+articleReturning+`
		)
		SELECT `+articleColumns+` FROM a `+articleJoin,
		patch.Title, patch.Content, patch.PhotoURL, categoryArg(patch.Category), existing.ID,
	)
	updated, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound(ArticleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return ArticleOrNotFound(updated)
}

// Delete removes the first article (in insertion order) matching f and
// returns it as it was before removal.
func (s *ArticleStore) Delete(ctx context.Context, f query.Filter) (_ *models.Article, err error) {
	defer observe("articles", "delete", time.Now(), &err)

	var args query.Args
	where := f.SQL(&args)
	row := s.db.QueryRowContext(ctx, `
		WITH target AS (
			SELECT a.id FROM articles a `+articleJoin+`
			WHERE `+where+`
			ORDER BY a.seq
			LIMIT 1
		), a AS (
			DELETE FROM articles WHERE id IN (SELECT id FROM target)
			RETURNING `+articleReturning+`
		)
		SELECT `+articleColumns+` FROM a `+articleJoin,
		args.Values()...,
	)
	deleted, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound(ArticleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	return ArticleOrNotFound(deleted)
}

func (s *ArticleStore) list(ctx context.Context, q string, args ...any) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}
