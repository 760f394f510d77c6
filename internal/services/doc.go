// Package services provides music catalog provider implementations.
//
// The [Service] interface abstracts catalog search and audio analysis so
// commands and background tasks stay provider-agnostic. [SpotifyService] is
// the production implementation, built on the authenticated client in
// internal/spotify.
//
// Response types mirror the Spotify Web API reference
// (https://developer.spotify.com/documentation/web-api/reference/) and are
// converted to the DTOs in internal/models at the package boundary.
package services
