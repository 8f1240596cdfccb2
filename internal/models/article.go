// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OwnerRef is the owner field of an article. In storage it is only the
// owner's ID; after a read it also carries the hydrated user record.
// Store methods always return articles whose OwnerRef is resolved.
type OwnerRef struct {
	ID   uuid.UUID
	user *User
}

// UnresolvedOwner returns a reference that only knows the owner's ID.
func UnresolvedOwner(id uuid.UUID) OwnerRef {
	return OwnerRef{ID: id}
}

// ResolvedOwner returns a reference hydrated with the full user record.
func ResolvedOwner(u *User) OwnerRef {
	return OwnerRef{ID: u.ID, user: u}
}

// Resolved reports whether the full owner record is attached.
func (o OwnerRef) Resolved() bool {
	return o.user != nil
}

// User returns the hydrated owner, or nil if the reference is unresolved.
func (o OwnerRef) User() *User {
	return o.user
}

// MarshalJSON emits the full owner when resolved and the bare ID otherwise.
func (o OwnerRef) MarshalJSON() ([]byte, error) {
	if o.user != nil {
		return json.Marshal(o.user)
	}
	return json.Marshal(o.ID)
}

// Article is a published piece of writing owned by a single user.
type Article struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	PhotoURL  *string   `json:"photo_url"`
	Category  *Category `json:"category,omitempty"`
	Owner     OwnerRef  `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the article's owner is the given user.
func (a *Article) OwnedBy(u *User) bool {
	return u != nil && a.Owner.ID == u.ID
}

// ArticlePatch lists the fields an owner may change. Nil fields are left
// untouched when the patch is applied.
type ArticlePatch struct {
	Title    *string
	Content  *string
	PhotoURL *string
	Category *Category
}

// Empty returns true if the patch would not change anything.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.PhotoURL == nil && p.Category == nil
}

// Apply merges the non-nil patch fields into a.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.PhotoURL != nil {
		a.PhotoURL = p.PhotoURL
	}
	if p.Category != nil {
		a.Category = p.Category
	}
}
