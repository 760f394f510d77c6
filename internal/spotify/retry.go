package spotify

import "net/http"

// RetryPolicy governs reauthentication retries for authenticated requests.
//
// A response whose status Retryable accepts triggers a forced token refresh
// followed by a retry, up to MaxAttempts total attempts. Static token sources
// never retry regardless of policy since refreshing them is a no-op.
type RetryPolicy struct {
	MaxAttempts int                   // Total attempts including the initial request
	Retryable   func(status int) bool // Reports whether a status warrants reauthentication
}

// DefaultRetryPolicy retries once on 401 Unauthorized or 403 Forbidden, the
// statuses Spotify returns for expired or insufficiently scoped tokens.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Retryable: func(status int) bool {
			return status == http.StatusUnauthorized || status == http.StatusForbidden
		},
	}
}

// ShouldRetry reports whether attempt (zero-based) may be followed by a
// refresh-and-retry for the given status.
func (p RetryPolicy) ShouldRetry(attempt, status int, static bool) bool {
	if static {
		return false
	}

	if p.Retryable == nil || !p.Retryable(status) {
		return false
	}

	return attempt+1 < p.MaxAttempts
}
