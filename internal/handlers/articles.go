// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/service"
	"pressroom/internal/storage"
)

// ListingCache caches encoded article listings. *cache.ListingCache
// implements it.
type ListingCache interface {
	Key(ctx context.Context, category, search string) (string, bool)
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// PhotoStore keeps article photos. *storage.Client implements it.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, contentType string, body io.Reader, size int64) (string, error)
	DeletePhoto(ctx context.Context, rawURL string) error
}

// Articles groups the article and comment handlers.
type Articles struct {
	articles *service.ArticleService
	comments *service.CommentService
	cache    ListingCache // nil disables listing caching
	photos   PhotoStore   // nil disables photo uploads
}

// NewArticles creates the article handler group. cache and photos are
// optional.
func NewArticles(articles *service.ArticleService, comments *service.CommentService, cache ListingCache, photos PhotoStore) *Articles {
	return &Articles{articles: articles, comments: comments, cache: cache, photos: photos}
}

// List serves GET /articles with the optional category and search query
// parameters.
func (a *Articles) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawCategory := q.Get("category")
	category, err := models.ParseCategory(rawCategory)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var search *string
	if q.Has("search") {
		s := q.Get("search")
		search = &s
	}

	// The key is taken before the store read so a write landing in between
	// leaves this listing under a retired generation.
	var key string
	cacheable := false
	if a.cache != nil {
		key, cacheable = a.cache.Key(r.Context(), rawCategory, q.Get("search"))
	}
	if cacheable {
		if body, ok := a.cache.Get(r.Context(), key); ok {
			writeRawJSON(w, "HIT", body)
			return
		}
	}

	summaries, err := a.articles.GetArticles(r.Context(), category, search)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := json.Marshal(summaries)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cacheable {
		a.cache.Set(r.Context(), key, body)
	}
	writeRawJSON(w, "MISS", body)
}

// Get serves GET /articles/{id}: the article with its comments.
func (a *Articles) Get(w http.ResponseWriter, r *http.Request) {
	article, err := a.articles.GetArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := a.articles.GetArticleWithComments(r.Context(), article)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

// Create serves POST /articles. The body is either JSON or a multipart
// form whose optional "photo" file is uploaded before the article is
// stored.
func (a *Articles) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromCtx(r.Context())

	var (
		in       service.CreateArticleInput
		uploaded bool
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var ok bool
		if in, ok = a.parseArticleForm(w, r); !ok {
			return
		}
		uploaded = in.PhotoURL != nil
	} else if !decodeJSON(w, r, &in) {
		return
	}

	detail, err := a.articles.CreateArticle(r.Context(), in, owner)
	if err != nil {
		if uploaded {
			a.discardPhoto(r.Context(), *in.PhotoURL)
		}
		writeError(w, r, err)
		return
	}

	a.invalidateListings(r.Context())
	writeJSON(w, r, http.StatusCreated, detail)
}

// Update serves PATCH /articles/{id}. Ownership is enforced by
// middleware.RequireArticleOwner.
func (a *Articles) Update(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateArticleInput
	if !decodeJSON(w, r, &in) {
		return
	}

	existing, err := a.articles.GetArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := a.articles.UpdateArticle(r.Context(), existing, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.invalidateListings(r.Context())
	writeJSON(w, r, http.StatusOK, detail)
}

// Delete serves DELETE /articles/{id} and returns the removed article.
// Its photo is removed from storage on a best-effort basis.
func (a *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.articles.DeleteArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if deleted.PhotoURL != nil && a.photos != nil {
		a.discardPhoto(r.Context(), *deleted.PhotoURL)
	}

	a.invalidateListings(r.Context())
	writeJSON(w, r, http.StatusOK, deleted)
}

// ListComments serves GET /articles/{id}/comments.
func (a *Articles) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.comments.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]service.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, service.ToCommentView(c))
	}
	writeJSON(w, r, http.StatusOK, views)
}

type commentRequest struct {
	Content string `json:"content"`
}

// AddComment serves POST /articles/{id}/comments.
func (a *Articles) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	author := middleware.UserFromCtx(r.Context())
	comment, err := a.comments.AddComment(r.Context(), chi.URLParam(r, "id"), author, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, service.ToCommentView(*comment))
}

// parseArticleForm reads a multipart article form and uploads its photo.
// It reports false after writing the error response.
func (a *Articles) parseArticleForm(w http.ResponseWriter, r *http.Request) (service.CreateArticleInput, bool) {
	var in service.CreateArticleInput

	// Limit request body to the photo size plus some room for text fields.
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxPhotoSize); err != nil {
		writeMessage(w, r, http.StatusRequestEntityTooLarge, "Photo too large. Maximum size is 10 MB.")
		return in, false
	}

	in.Title = r.FormValue("title")
	in.Content = r.FormValue("content")
	if raw := r.FormValue("category"); raw != "" {
		c := models.Category(raw)
		in.Category = &c
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return in, true
	}
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Invalid photo upload.")
		return in, false
	}
	defer file.Close()

	if a.photos == nil {
		writeMessage(w, r, http.StatusServiceUnavailable, "Photo storage is not configured.")
		return in, false
	}
	if header.Size > storage.MaxPhotoSize {
		writeMessage(w, r, http.StatusRequestEntityTooLarge, "Photo too large. Maximum size is 10 MB.")
		return in, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return in, false
	}

	// Detect content type by sniffing rather than trusting the client.
	contentType := http.DetectContentType(data)
	url, err := a.photos.UploadPhoto(r.Context(), contentType, bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, storage.ErrUnsupportedType) {
		writeMessage(w, r, http.StatusBadRequest, "Photo must be a JPEG, PNG, GIF or WebP image.")
		return in, false
	}
	if err != nil {
		writeError(w, r, err)
		return in, false
	}

	in.PhotoURL = &url
	return in, true
}

func (a *Articles) discardPhoto(ctx context.Context, url string) {
	if err := a.photos.DeletePhoto(ctx, url); err != nil {
		slog.Warn("photo delete failed", "url", url, "error", err)
	}
}

func (a *Articles) invalidateListings(ctx context.Context) {
	if a.cache != nil {
		a.cache.InvalidateAll(ctx)
	}
}

// writeRawJSON writes an already encoded JSON body.
func writeRawJSON(w http.ResponseWriter, cacheStatus string, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
