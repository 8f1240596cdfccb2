package service

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"pressroom/internal/store"
)

func TestGetArticleCommentsNeverNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice")
	d := e.create(t, u, "Quiet", "Nobody comments", nil)

	a, err := e.articles.GetArticleByID(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	got, err := e.comments.GetArticleComments(ctx, a)
	if err != nil {
		t.Fatalf("GetArticleComments: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
}

func TestAddCommentUnknownArticle(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")

	_, err := e.comments.AddComment(context.Background(), uuid.NewString(), u, "hello?")
	if notFoundSubject(err) != store.ArticleNotFound {
		t.Errorf("got %v, want %q", err, store.ArticleNotFound)
	}
}

func TestAddCommentValidation(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")
	d := e.create(t, u, "Post", "Body", nil)

	_, err := e.comments.AddComment(context.Background(), d.ID.String(), u, "")
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if _, ok := verrs["Content"]; !ok {
		t.Errorf("expected error on Content, got %v", verrs)
	}
}

func TestListComments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice")
	d := e.create(t, u, "Post", "Body", nil)

	for _, body := range []string{"first", "second", "third"} {
		if _, err := e.comments.AddComment(ctx, d.ID.String(), u, body); err != nil {
			t.Fatalf("AddComment: %v", err)
		}
	}

	got, err := e.comments.ListComments(ctx, d.ID.String())
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(got) != 3 || got[0].Content != "first" || got[2].Content != "third" {
		t.Errorf("order: %+v", got)
	}

	if _, err := e.comments.ListComments(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown article: got %v, want ErrNotFound", err)
	}
}

func TestCommentsSurviveArticleDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice")
	d := e.create(t, u, "Post", "Body", nil)
	if _, err := e.comments.AddComment(ctx, d.ID.String(), u, "kept"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	a, _ := e.articles.GetArticleByID(ctx, d.ID.String())
	if _, err := e.articles.DeleteArticle(ctx, d.ID.String()); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}

	got, err := e.comments.GetArticleComments(ctx, a)
	if err != nil || len(got) != 1 {
		t.Errorf("comments after delete: got %v, %v", got, err)
	}
}
