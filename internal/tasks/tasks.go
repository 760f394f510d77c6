// package tasks implements catalog discovery operations against music services.
//
// The core abstraction is DiscoveryEngine, which orchestrates searches, audio analysis, and bulk feature exports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/services"
	"github.com/desertthunder/djx/internal/shared"
)

// TrackAnalysis pairs a track with its audio features.
type TrackAnalysis struct {
	Track    models.Track          // Track from the search results
	Features *models.AudioFeatures // Analysis vector (nil if the fetch failed)
	Error    error                 // Error if the feature fetch failed
}

// AnalysisResult contains all data from a search-and-analyze operation.
type AnalysisResult struct {
	Query          string          // Original search query
	Analyses       []TrackAnalysis // Per-track analysis results
	SuccessCount   int             // Number of tracks with features
	FailedCount    int             // Number of failed feature fetches
	TotalTracks    int             // Total tracks returned by the search
	SuccessPercent float64         // Success rate as percentage
}

// TrackCacher caches catalog data fetched during task runs.
//
// Implementations must treat duplicates as success so tasks can cache on
// every fetch.
type TrackCacher interface {
	CacheTrack(service, serviceID string, track models.Track) error
	CacheFeatures(features models.AudioFeatures) error
}

// DiscoveryEngine defines operations for exploring the catalog.
type DiscoveryEngine interface {
	// Analyze searches the catalog and fetches audio features for every result.
	Analyze(ctx context.Context, progress chan<- ProgressUpdate, query string, limit int) (*AnalysisResult, error)

	// BulkFeatures exports audio features for many tracks concurrently.
	BulkFeatures(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts BulkFeaturesOpts) (*BulkFeaturesResult, error)
}

// CatalogEngine implements DiscoveryEngine against a catalog service.
// Fetched tracks and features are cached opportunistically when a cacher is configured.
type CatalogEngine struct {
	service services.Service
	cache   TrackCacher
}

// NewCatalogEngine creates a new CatalogEngine with the provided service.
// The cacher may be nil, disabling caching.
func NewCatalogEngine(service services.Service, cache TrackCacher) *CatalogEngine {
	return &CatalogEngine{
		service: service,
		cache:   cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Analyze searches the catalog for query and fetches the audio features for
// every result. Individual feature failures are recorded per track; the
// operation only fails outright when the search fails or nothing could be
// analyzed.
func (e *CatalogEngine) Analyze(ctx context.Context, progress chan<- ProgressUpdate, query string, limit int) (*AnalysisResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	result := &AnalysisResult{Query: query}

	e.sendProgress(progress, searchCatalogUpdate(query))

	tracks, err := e.service.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", shared.ErrAPIRequest, err)
	}

	total := len(tracks)
	result.TotalTracks = total

	e.sendProgress(progress, foundTracksUpdate(total, query))

	analyses := make([]TrackAnalysis, total)
	successCount := 0

	for i, track := range tracks {
		e.cacheTrack(track)

		e.sendProgress(progress, fetchFeaturesUpdate(i+1, total, &track))

		features, err := e.service.AudioFeatures(ctx, track.ID)
		analyses[i] = TrackAnalysis{
			Track:    track,
			Features: features,
			Error:    err,
		}

		if err == nil {
			successCount++
			e.cacheFeatures(*features)
		} else {
			e.sendProgress(progress, featuresFailedUpdate(i+1, total, track.ID, err))
		}
	}

	result.Analyses = analyses
	result.SuccessCount = successCount
	result.FailedCount = total - successCount
	if total > 0 {
		result.SuccessPercent = float64(successCount) / float64(total) * 100
	}

	if total > 0 && successCount == 0 {
		return result, fmt.Errorf("no audio features could be retrieved for '%s'", query)
	}

	return result, nil
}

// cacheTrack caches a track without failing the surrounding operation.
func (e *CatalogEngine) cacheTrack(track models.Track) {
	if e.cache == nil {
		return
	}
	_ = e.cache.CacheTrack(e.service.Name(), track.ID, track)
}

// cacheFeatures caches a feature vector without failing the surrounding operation.
func (e *CatalogEngine) cacheFeatures(features models.AudioFeatures) {
	if e.cache == nil {
		return
	}
	_ = e.cache.CacheFeatures(features)
}
