// Package server provides HTTP routing, middleware, and OAuth callback handling for the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] is the only middleware shipped; it records each request through a charmbracelet logger.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `djx auth login`, a temporary HTTP server starts on the
// configured localhost address, handles the Spotify callback, and shuts down
// after receiving the OAuth token. The token is then saved to the config file
// so subsequent commands use it instead of the client-credentials flow.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
