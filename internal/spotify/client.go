package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/djx/internal/shared"
)

// Credentials holds everything needed to authenticate against the API.
//
// When AccessToken is set it takes precedence over the client id/secret pair
// and the client uses it directly without ever contacting the token endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	Market       string // ISO 3166-1 alpha-2 market code applied to searches
}

// ClientOpts carries optional overrides for NewClient. The zero value selects
// production endpoints, a 20 second timeout, and the default retry policy.
type ClientOpts struct {
	HTTPClient *http.Client
	BaseURL    string
	TokenURL   string
	Retry      *RetryPolicy
}

// Client is an authenticated Spotify Web API client.
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
	market     string
	retry      RetryPolicy
}

// NewClient builds a client from credentials. A pre-issued access token yields
// a static token source; otherwise the client id/secret pair drives the
// client-credentials flow lazily on first request.
func NewClient(creds Credentials, opts ClientOpts) (*Client, error) {
	if creds.AccessToken == "" && (creds.ClientID == "" || creds.ClientSecret == "") {
		return nil, fmt.Errorf("%w: set client_id and client_secret or an access token", shared.ErrMissingCredentials)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	var tokens TokenSource
	if creds.AccessToken != "" {
		tokens = NewStaticTokenSource(creds.AccessToken)
	} else {
		tokens = NewClientCredentialsSource(creds.ClientID, creds.ClientSecret, opts.TokenURL, httpClient)
	}

	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		baseURL:    baseURL,
		market:     creds.Market,
		retry:      retry,
	}, nil
}

// Market returns the configured market code, possibly empty.
func (c *Client) Market() string { return c.market }

// Tokens exposes the underlying token source.
func (c *Client) Tokens() TokenSource { return c.tokens }

// Get issues an authenticated GET against path (joined to the base URL unless
// already absolute) and decodes the JSON response into result when non-nil.
//
// On a retryable status the token is forcibly refreshed and the request
// replayed once; any remaining non-2xx response becomes an [*APIError].
func (c *Client) Get(ctx context.Context, path string, params url.Values, result any) error {
	endpoint := path
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = c.baseURL + path
	}

	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if result == nil {
				return nil
			}

			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			return nil
		}

		if c.retry.ShouldRetry(attempt, resp.StatusCode, c.tokens.Static()) {
			if err := c.tokens.Refresh(ctx); err != nil {
				return err
			}

			continue
		}

		return newAPIError(resp.StatusCode, body)
	}
}
