package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/djx/internal/models"
)

// TrackCacheAdapter implements tasks.TrackCacher on top of the track and
// feature repositories.
//
// Provides automatic caching with deduplication via UNIQUE constraints.
// Duplicates are silently ignored so callers can cache on every fetch.
type TrackCacheAdapter struct {
	tracks   *TrackRepository
	features *FeatureRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repositories
func NewTrackCacheAdapter(tracks *TrackRepository, features *FeatureRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{tracks: tracks, features: features}
}

// CacheTrack caches a track from a service.
// Returns nil if the track already exists (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *TrackCacheAdapter) CacheTrack(service, serviceID string, track models.Track) error {
	existing, err := a.tracks.GetByServiceID(service, serviceID)
	if err == nil && existing != nil {
		return nil
	}

	persistedTrack := models.NewPersistedTrack(0, service, serviceID, track)

	err = a.tracks.Create(persistedTrack)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// CacheFeatures caches the audio analysis vector for a track.
// Returns nil if a vector is already cached for the track.
func (a *TrackCacheAdapter) CacheFeatures(features models.AudioFeatures) error {
	existing, err := a.features.GetByTrackID(features.TrackID)
	if err == nil && existing != nil {
		return nil
	}

	persisted := models.NewPersistedFeatures(0, features)

	err = a.features.Create(persisted)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache audio features: %w", err)
	}

	return nil
}
