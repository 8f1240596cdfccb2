// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"pressroom/internal/models"
)

// ErrNotFound is matched by every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ErrOwnerUnresolved reports an article whose owner_id points at no user.
// It is a data-integrity fault and is never reported as not found.
var ErrOwnerUnresolved = errors.New("article owner could not be resolved")

// ErrDuplicateUser is returned when an email or username is already taken.
var ErrDuplicateUser = errors.New("user already exists")

// Not-found subjects used by the article repositories.
const (
	ArticleNotFound = "Article not found"
	NoArticlesFound = "No article found"
)

// NotFoundError is returned when a lookup yields nothing. Subject is the
// human-readable message surfaced to clients.
type NotFoundError struct {
	Subject string
}

func (e *NotFoundError) Error() string {
	return e.Subject
}

// Is makes errors.Is(err, ErrNotFound) hold for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError with the given subject.
func NotFound(subject string) error {
	return &NotFoundError{Subject: subject}
}

// ArticleOrNotFound applies the single-record retrieval policy: a nil
// record becomes "Article not found".
func ArticleOrNotFound(a *models.Article) (*models.Article, error) {
	if a == nil {
		return nil, NotFound(ArticleNotFound)
	}
	if !a.Owner.Resolved() {
		return nil, ErrOwnerUnresolved
	}
	return a, nil
}

// ArticlesOrNotFound applies the multi-record retrieval policy: an empty
// result is "No article found", never an empty slice.
func ArticlesOrNotFound(articles []models.Article) ([]models.Article, error) {
	if len(articles) == 0 {
		return nil, NotFound(NoArticlesFound)
	}
	for i := range articles {
		if !articles[i].Owner.Resolved() {
			return nil, ErrOwnerUnresolved
		}
	}
	return articles, nil
}
