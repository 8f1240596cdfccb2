package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pressroom/internal/models"
)

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	token, user := e.signUp(t, "alice")
	if token == "" {
		t.Fatal("expected a session token")
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("user: got %+v", user)
	}

	t.Run("duplicate is 409", func(t *testing.T) {
		rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
			"email": "alice@example.com", "username": "alice2", "password": "correct-horse",
		})
		if rr.Code != http.StatusConflict {
			t.Errorf("status: got %d, want 409", rr.Code)
		}
	})

	t.Run("invalid input is 400", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]string
		}{
			{"bad email", map[string]string{"email": "nope", "username": "carol", "password": "correct-horse"}},
			{"short password", map[string]string{"email": "carol@example.com", "username": "carol", "password": "short"}},
			{"missing username", map[string]string{"email": "carol@example.com", "password": "correct-horse"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rr := e.do(t, http.MethodPost, "/auth/register", "", tt.body)
				if rr.Code != http.StatusBadRequest {
					t.Errorf("status: got %d, want 400: %s", rr.Code, rr.Body.String())
				}
			})
		}
	})
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	e.signUp(t, "alice")

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{"valid", "alice@example.com", "correct-horse", http.StatusOK},
		{"email is case-insensitive", "Alice@Example.com", "correct-horse", http.StatusOK},
		{"wrong password", "alice@example.com", "wrong-horse", http.StatusUnauthorized},
		{"unknown email", "nobody@example.com", "correct-horse", http.StatusUnauthorized},
		{"missing fields", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": tt.email, "password": tt.password})
			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signUp(t, "alice")

	rr := e.do(t, http.MethodGet, "/auth/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got %d, want 200", rr.Code)
	}
	var me models.User
	decode(t, rr, &me)
	if me.Username != "alice" {
		t.Errorf("me: got %q, want alice", me.Username)
	}

	if rr := e.do(t, http.MethodGet, "/auth/me", "", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me: got %d, want 401", rr.Code)
	}

	if rr := e.do(t, http.MethodPost, "/auth/logout", token, nil); rr.Code != http.StatusNoContent {
		t.Errorf("logout: got %d, want 204", rr.Code)
	}
	if rr := e.do(t, http.MethodGet, "/auth/me", token, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: got %d, want 401", rr.Code)
	}
}

func TestMalformedJSON(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if got := errorMessage(t, rr); got != "Malformed JSON body" {
		t.Errorf("message: got %q", got)
	}
}
