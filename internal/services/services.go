// package services defines interface Service for music catalog providers
package services

import (
	"context"

	"github.com/desertthunder/djx/internal/models"
)

// Service defines the interface for catalog providers that can search for
// tracks and fetch per-track audio analysis.
type Service interface {
	// SearchTracks searches the catalog for tracks matching a free-text query.
	// Limit is clamped to the provider's supported range.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// AudioFeatures retrieves the audio analysis metrics for a single track.
	// Accepts bare IDs, URIs, and share links.
	AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatures, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}
