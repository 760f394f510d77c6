package spotify

import (
	"net/http"
	"testing"
)

func TestExtractErrorMessage(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "structured error object",
			status: http.StatusBadRequest,
			body:   `{"error": {"status": 400, "message": "invalid id"}}`,
			want:   "Spotify API error 400: invalid id",
		},
		{
			name:   "bare error string",
			status: http.StatusBadRequest,
			body:   `{"error": "invalid_client"}`,
			want:   "Spotify API error 400: invalid_client",
		},
		{
			name:   "non-json body",
			status: http.StatusBadGateway,
			body:   "  upstream unavailable \n",
			want:   "Spotify API error 502: upstream unavailable",
		},
		{
			name:   "empty body",
			status: http.StatusInternalServerError,
			body:   "",
			want:   "Spotify API error 500: Unknown Spotify API error",
		},
		{
			name:   "forbidden guidance",
			status: http.StatusForbidden,
			body:   `{"error": {"status": 403, "message": "Insufficient scope"}}`,
			want:   "Spotify API returned 403 Forbidden: Insufficient scope. For development apps, ensure the requested resource is available in your market and consider using an Authorization Code token (set SPOTIFY_ACCESS_TOKEN).",
		},
		{
			name:   "not found guidance",
			status: http.StatusNotFound,
			body:   `{"error": {"status": 404, "message": "Non existing id"}}`,
			want:   "Spotify API returned 404 Not Found: Non existing id. This usually means one of the supplied IDs is invalid or unavailable in the current market.",
		},
		{
			name:   "json without error field falls back to raw body",
			status: http.StatusBadRequest,
			body:   `{"detail": "oops"}`,
			want:   `Spotify API error 400: {"detail": "oops"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractErrorMessage(tc.status, []byte(tc.body))
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := newAPIError(http.StatusTooManyRequests, []byte(`{"error": {"message": "rate limited"}}`))
	if err.Error() != "Spotify API error 429: rate limited" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	if err.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", err.Status)
	}
}
