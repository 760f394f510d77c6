package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/desertthunder/djx/internal/shared"
)

func TestNewClient(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		_, err := NewClient(Credentials{ClientID: "only_id"}, ClientOpts{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})

	t.Run("prefers a pre-issued token", func(t *testing.T) {
		client, err := NewClient(Credentials{AccessToken: "user_token", ClientID: "id", ClientSecret: "secret"}, ClientOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !client.Tokens().Static() {
			t.Error("expected a static token source")
		}
	})

	t.Run("exposes the configured market", func(t *testing.T) {
		client, err := NewClient(Credentials{AccessToken: "user_token", Market: "SE"}, ClientOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if client.Market() != "SE" {
			t.Errorf("expected SE, got %s", client.Market())
		}
	})
}

func TestClientGet(t *testing.T) {
	ctx := context.Background()

	t.Run("sends bearer token and decodes response", func(t *testing.T) {
		tokenCalls := 0
		tokenServer := newTokenServer(t, &tokenCalls, map[string]any{"access_token": "tok_1", "expires_in": 3600})

		defer tokenServer.Close()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); auth != "Bearer tok_1" {
				t.Errorf("unexpected authorization header: %s", auth)
			}

			if q := r.URL.Query().Get("q"); q != "bicep" {
				t.Errorf("unexpected query: %s", q)
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name": "Glue"}`))
		}))

		defer api.Close()

		client, err := NewClient(
			Credentials{ClientID: "test_id", ClientSecret: "test_secret"},
			ClientOpts{HTTPClient: api.Client(), BaseURL: api.URL, TokenURL: tokenServer.URL},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result struct {
			Name string `json:"name"`
		}

		if err := client.Get(ctx, "/tracks/abc", url.Values{"q": {"bicep"}}, &result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Name != "Glue" {
			t.Errorf("expected Glue, got %s", result.Name)
		}

		if tokenCalls != 1 {
			t.Errorf("expected 1 token call, got %d", tokenCalls)
		}
	})

	t.Run("static token never contacts the token endpoint", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("token endpoint should not be called")
		}))

		defer tokenServer.Close()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))

		defer api.Close()

		client, err := NewClient(
			Credentials{AccessToken: "user_token"},
			ClientOpts{HTTPClient: api.Client(), BaseURL: api.URL, TokenURL: tokenServer.URL},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := client.Get(ctx, "/me", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("refreshes and retries once on 403", func(t *testing.T) {
		tokenCalls := 0
		tokenServer := newTokenServer(t, &tokenCalls, map[string]any{"access_token": "tok_1", "expires_in": 3600})

		defer tokenServer.Close()

		apiCalls := 0
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			apiCalls++

			if apiCalls == 1 {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error": {"status": 403, "message": "Insufficient scope"}}`))
				return
			}

			_, _ = w.Write([]byte(`{"ok": true}`))
		}))

		defer api.Close()

		client, err := NewClient(
			Credentials{ClientID: "test_id", ClientSecret: "test_secret"},
			ClientOpts{HTTPClient: api.Client(), BaseURL: api.URL, TokenURL: tokenServer.URL},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := client.Get(ctx, "/tracks/abc", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if apiCalls != 2 {
			t.Errorf("expected 2 api calls, got %d", apiCalls)
		}

		if tokenCalls != 2 {
			t.Errorf("expected 2 token calls (initial + forced refresh), got %d", tokenCalls)
		}
	})

	t.Run("static token does not retry on 401", func(t *testing.T) {
		apiCalls := 0
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			apiCalls++

			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"status": 401, "message": "The access token expired"}}`))
		}))

		defer api.Close()

		client, err := NewClient(
			Credentials{AccessToken: "stale_token"},
			ClientOpts{HTTPClient: api.Client(), BaseURL: api.URL},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err = client.Get(ctx, "/me", nil, nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected an APIError, got %v", err)
		}

		if apiErr.Status != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", apiErr.Status)
		}

		if apiCalls != 1 {
			t.Errorf("expected 1 api call, got %d", apiCalls)
		}
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		tokenCalls := 0
		tokenServer := newTokenServer(t, &tokenCalls, map[string]any{"access_token": "tok_1", "expires_in": 3600})

		defer tokenServer.Close()

		apiCalls := 0
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			apiCalls++

			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"status": 401, "message": "The access token expired"}}`))
		}))

		defer api.Close()

		client, err := NewClient(
			Credentials{ClientID: "test_id", ClientSecret: "test_secret"},
			ClientOpts{HTTPClient: api.Client(), BaseURL: api.URL, TokenURL: tokenServer.URL},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err = client.Get(ctx, "/me", nil, nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected an APIError, got %v", err)
		}

		if apiCalls != 2 {
			t.Errorf("expected 2 api calls, got %d", apiCalls)
		}
	})

	t.Run("does not retry on other statuses", func(t *testing.T) {
		tokenCalls := 0
		tokenServer := newTokenServer(t, &tokenCalls, map[string]any{"access_token": "tok_1", "expires_in": 3600})

		defer tokenServer.Close()

		apiCalls := 0
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			apiCalls++

			w.WriteHeader(http.StatusInternalServerError)
		}))

		defer api.Close()

		client, err := NewClient(
			Credentials{ClientID: "test_id", ClientSecret: "test_secret"},
			ClientOpts{HTTPClient: api.Client(), BaseURL: api.URL, TokenURL: tokenServer.URL},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err = client.Get(ctx, "/me", nil, nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected an APIError, got %v", err)
		}

		if apiErr.Message != "Spotify API error 500: Unknown Spotify API error" {
			t.Errorf("unexpected message: %s", apiErr.Message)
		}

		if apiCalls != 1 {
			t.Errorf("expected 1 api call, got %d", apiCalls)
		}
	})
}
