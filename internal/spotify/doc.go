// Package spotify implements a minimal Spotify Web API client using the
// OAuth2 client-credentials flow.
//
// # Token Management
//
// The [TokenSource] interface abstracts bearer token acquisition.
// [ClientCredentialsSource] lazily exchanges a client id/secret pair at the
// token endpoint and caches the result, refreshing one minute before the
// advertised expiry to tolerate clock skew. [StaticTokenSource] wraps a
// pre-issued token (typically from an Authorization Code login) that is never
// refreshed.
//
// # Request Primitive
//
// [Client.Get] is the single authenticated operation: it attaches a bearer
// token, issues the GET, and decodes the JSON response. A 401 or 403 response
// triggers exactly one forced token refresh and one retry, governed by the
// configurable [RetryPolicy]; static-token clients never retry. Any other
// failure surfaces immediately.
//
// # Error Handling
//
// Non-2xx responses after the retry budget become an [*APIError] carrying a
// message extracted from the service's structured error body, enriched with
// actionable guidance for 403 and 404. Transport errors and token-endpoint
// failures propagate to the caller unmodified.
package spotify
