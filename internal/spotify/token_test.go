package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTokenServer(t *testing.T, calls *int, payload map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++

		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		id, secret, ok := r.BasicAuth()
		if !ok || id != "test_id" || secret != "test_secret" {
			t.Errorf("unexpected basic auth: %s / %s", id, secret)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}

		if grant := r.PostForm.Get("grant_type"); grant != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %s", grant)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func TestClientCredentialsSource(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches token on first use", func(t *testing.T) {
		calls := 0
		server := newTokenServer(t, &calls, map[string]any{"access_token": "tok_1", "expires_in": 120})

		defer server.Close()

		src := NewClientCredentialsSource("test_id", "test_secret", server.URL, server.Client())
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		src.now = func() time.Time { return now }

		token, err := src.Token(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if token != "tok_1" {
			t.Errorf("expected tok_1, got %s", token)
		}

		if calls != 1 {
			t.Errorf("expected 1 token call, got %d", calls)
		}

		want := now.Add(120*time.Second - time.Minute)
		if !src.expiresAt.Equal(want) {
			t.Errorf("expected expiry %v, got %v", want, src.expiresAt)
		}
	})

	t.Run("caches token until expiry", func(t *testing.T) {
		calls := 0
		server := newTokenServer(t, &calls, map[string]any{"access_token": "tok_1", "expires_in": 3600})

		defer server.Close()

		src := NewClientCredentialsSource("test_id", "test_secret", server.URL, server.Client())

		for range 3 {
			if _, err := src.Token(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if calls != 1 {
			t.Errorf("expected 1 token call, got %d", calls)
		}
	})

	t.Run("refreshes expired token", func(t *testing.T) {
		calls := 0
		server := newTokenServer(t, &calls, map[string]any{"access_token": "tok_1", "expires_in": 120})

		defer server.Close()

		src := NewClientCredentialsSource("test_id", "test_secret", server.URL, server.Client())
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		src.now = func() time.Time { return now }

		if _, err := src.Token(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		now = now.Add(2 * time.Minute)

		if _, err := src.Token(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if calls != 2 {
			t.Errorf("expected 2 token calls, got %d", calls)
		}
	})

	t.Run("defaults lifetime when expires_in is missing", func(t *testing.T) {
		calls := 0
		server := newTokenServer(t, &calls, map[string]any{"access_token": "tok_1"})

		defer server.Close()

		src := NewClientCredentialsSource("test_id", "test_secret", server.URL, server.Client())
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		src.now = func() time.Time { return now }

		if _, err := src.Token(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := now.Add(3600*time.Second - time.Minute)
		if !src.expiresAt.Equal(want) {
			t.Errorf("expected expiry %v, got %v", want, src.expiresAt)
		}
	})

	t.Run("propagates endpoint failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		defer server.Close()

		src := NewClientCredentialsSource("test_id", "test_secret", server.URL, server.Client())

		_, err := src.Token(ctx)
		if err == nil {
			t.Fatal("expected an error")
		}

		if !strings.Contains(err.Error(), "status 500") {
			t.Errorf("expected status in error, got %v", err)
		}
	})

	t.Run("errors on missing access_token", func(t *testing.T) {
		calls := 0
		server := newTokenServer(t, &calls, map[string]any{"expires_in": 3600})

		defer server.Close()

		src := NewClientCredentialsSource("test_id", "test_secret", server.URL, server.Client())

		if _, err := src.Token(ctx); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestStaticTokenSource(t *testing.T) {
	ctx := context.Background()
	src := NewStaticTokenSource("user_token")

	token, err := src.Token(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if token != "user_token" {
		t.Errorf("expected user_token, got %s", token)
	}

	if !src.Static() {
		t.Error("expected static source")
	}

	if err := src.Refresh(ctx); err != nil {
		t.Errorf("expected refresh to be a no-op, got %v", err)
	}
}
