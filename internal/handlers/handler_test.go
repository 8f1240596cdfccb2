// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs against the in-memory backends, so no services are
// needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"pressroom/internal/cache"
	"pressroom/internal/memstore"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/service"
	"pressroom/internal/session"
)

// fakeCache is an in-process ListingCache that counts invalidations.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generation  int
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Key(_ context.Context, category, search string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strconv.Itoa(c.generation) + ":" + cache.ListingKey(category, search), true
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *fakeCache) Set(_ context.Context, key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
}

func (c *fakeCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string][]byte)
	c.invalidated++
}

// fakePhotos records uploads and deletions.
type fakePhotos struct {
	uploaded []string
	deleted  []string
	err      error
}

func (p *fakePhotos) UploadPhoto(_ context.Context, contentType string, body io.Reader, _ int64) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "https://cdn.test/articles/" + strings.ReplaceAll(contentType, "/", "-")
	p.uploaded = append(p.uploaded, url)
	return url, nil
}

func (p *fakePhotos) DeletePhoto(_ context.Context, rawURL string) error {
	p.deleted = append(p.deleted, rawURL)
	return nil
}

// testEnv is a fully wired handler stack behind a chi router.
type testEnv struct {
	router   chi.Router
	users    *memstore.UserStore
	sessions *session.Store
	articles *service.ArticleService
	cache    *fakeCache
	photos   *fakePhotos
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := memstore.New()
	articleRepo := memstore.NewArticleStore(db)
	comments := service.NewCommentService(memstore.NewCommentStore(db), service.ArticleSourceFunc(articleRepo.FindOneByID))
	articles := service.NewArticleService(articleRepo, comments)

	e := &testEnv{
		users:    memstore.NewUserStore(db),
		sessions: session.NewMemoryStore(false),
		articles: articles,
		cache:    newFakeCache(),
		photos:   &fakePhotos{},
	}

	auth := NewAuth(e.sessions, e.users)
	h := NewArticles(articles, comments, e.cache, e.photos)

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(e.sessions, e.users))
	r.Post("/auth/register", auth.Register)
	r.Post("/auth/login", auth.Login)
	r.Post("/auth/logout", auth.Logout)
	r.With(middleware.RequireAuth).Get("/auth/me", auth.Me)
	r.Get("/articles", h.List)
	r.With(middleware.RequireAuth).Post("/articles", h.Create)
	r.Get("/articles/{id}", h.Get)
	r.Get("/articles/{id}/comments", h.ListComments)
	r.With(middleware.RequireAuth).Post("/articles/{id}/comments", h.AddComment)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireArticleOwner(articles, "id"))
		r.Patch("/articles/{id}", h.Update)
		r.Delete("/articles/{id}", h.Delete)
	})
	e.router = r

	return e
}

// signUp registers a user through the API and returns its bearer token.
func (e *testEnv) signUp(t *testing.T, name string) (string, *models.User) {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    name + "@example.com",
		"username": name,
		"password": "correct-horse",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: got %d: %s", name, rr.Code, rr.Body.String())
	}

	var resp authResponse
	decode(t, rr, &resp)
	return resp.Token, resp.User
}

// do sends a JSON request through the router.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// createArticle posts an article as token's user and returns its detail.
func (e *testEnv) createArticle(t *testing.T, token, title, content, category string) service.ArticleDetail {
	t.Helper()

	body := map[string]any{"title": title, "content": content}
	if category != "" {
		body["category"] = category
	}
	rr := e.do(t, http.MethodPost, "/articles", token, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %q: got %d: %s", title, rr.Code, rr.Body.String())
	}

	var d service.ArticleDetail
	decode(t, rr, &d)
	return d
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, rr, &body)
	return body.Message
}

var errBoom = errors.New("boom")
