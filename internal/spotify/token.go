package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Spotify Web API endpoints.
const (
	AuthURL  = "https://accounts.spotify.com/authorize"
	TokenURL = "https://accounts.spotify.com/api/token"
	BaseURL  = "https://api.spotify.com/v1"
)

const (
	// requestTimeout bounds every outbound HTTP call.
	requestTimeout = 20 * time.Second
	// expirySkew is subtracted from the advertised token lifetime so a token
	// is refreshed before the service actually rejects it.
	expirySkew = time.Minute
	// defaultTokenLifetime is assumed when the token endpoint omits expires_in.
	defaultTokenLifetime = 3600
)

// TokenSource supplies bearer tokens for authenticated API requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error) // Token returns a valid bearer token, refreshing if needed
	Refresh(ctx context.Context) error         // Refresh forces a new token to be fetched
	Static() bool                              // Static reports whether the token can never be refreshed
}

// StaticTokenSource wraps a pre-issued bearer token, typically obtained via
// the Authorization Code flow. It is never refreshed.
type StaticTokenSource struct {
	token string
}

var _ TokenSource = (*StaticTokenSource)(nil)

// NewStaticTokenSource creates a TokenSource that always returns token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(_ context.Context) (string, error) { return s.token, nil }
func (s *StaticTokenSource) Refresh(_ context.Context) error        { return nil }
func (s *StaticTokenSource) Static() bool                           { return true }

// ClientCredentialsSource exchanges a client id/secret pair for bearer tokens
// at the token endpoint and caches them until shortly before expiry.
//
// Safe for concurrent use; a refresh in flight blocks other callers so the
// endpoint is hit at most once per expiry.
type ClientCredentialsSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	client       *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

var _ TokenSource = (*ClientCredentialsSource)(nil)

// NewClientCredentialsSource creates a token source for the client-credentials
// grant. A nil httpClient falls back to one with the standard request timeout.
func NewClientCredentialsSource(clientID, clientSecret, tokenURL string, httpClient *http.Client) *ClientCredentialsSource {
	if tokenURL == "" {
		tokenURL = TokenURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &ClientCredentialsSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		client:       httpClient,
		now:          time.Now,
	}
}

// Token returns the cached access token, fetching a new one when none is
// cached or the cached one has reached its refresh deadline.
func (s *ClientCredentialsSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken == "" || !s.now().Before(s.expiresAt) {
		if err := s.refresh(ctx); err != nil {
			return "", err
		}
	}

	return s.accessToken, nil
}

// Refresh discards the cached token and fetches a new one immediately.
func (s *ClientCredentialsSource) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *ClientCredentialsSource) Static() bool { return false }

// refresh performs the token exchange. Callers must hold s.mu.
func (s *ClientCredentialsSource) refresh(ctx context.Context) error {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	if token.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	lifetime := token.ExpiresIn
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	s.accessToken = token.AccessToken
	s.expiresAt = s.now().Add(time.Duration(lifetime)*time.Second - expirySkew)

	return nil
}
