package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/djx/internal/formatter"
	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
	"golang.org/x/time/rate"
)

// BulkFeaturesOpts contains configuration for bulk feature exports.
type BulkFeaturesOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: spotify_features_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// FeatureExportJob identifies a single track to analyze and export.
type FeatureExportJob struct {
	TrackID string
}

// FeatureExportResult contains the outcome of exporting one track's features.
type FeatureExportResult struct {
	TrackID  string
	Success  bool
	Files    []string
	Features *models.AudioFeatures
	Error    error
}

// BulkFeaturesResult contains all data from a bulk feature export operation.
type BulkFeaturesResult struct {
	TotalTracks       int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []FeatureExportResult
}

// BulkFeatures exports audio features for multiple tracks concurrently with
// rate limiting and progress tracking.
//
// Implements a worker pool where each worker paces its own API calls through
// a shared limiter. Partial failures are collected per track, and a manifest
// file summarizing the run is written to the output directory.
func (e *CatalogEngine) BulkFeatures(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkFeaturesOpts,
) (*BulkFeaturesResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spotify_features_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkFeaturesResult{
		TotalTracks:     len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FeatureExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan FeatureExportJob, len(ids))
	results := make(chan FeatureExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.featureWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for i, trackID := range ids {
		e.sendProgress(prog, exportingFeatureUpdate(i+1, len(ids), trackID))
		jobs <- FeatureExportJob{TrackID: trackID}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.TrackID, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.TrackID, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "features_manifest.json")
	if err := formatter.WriteBulkFeaturesManifest(opts.Format, opts.OutputDir, manifestEntries(result.Results), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// featureWorker is a worker goroutine that fetches and exports features from the jobs channel.
func (e *CatalogEngine) featureWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan FeatureExportJob,
	results chan<- FeatureExportResult,
	opts BulkFeaturesOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- FeatureExportResult{
				TrackID: job.TrackID,
				Error:   ctx.Err(),
			}
			continue
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			results <- FeatureExportResult{
				TrackID: job.TrackID,
				Error:   err,
			}
			continue
		}

		results <- e.exportSingleTrack(ctx, job, opts)
	}
}

// exportSingleTrack fetches features for one track and writes them in the requested format.
func (e *CatalogEngine) exportSingleTrack(
	ctx context.Context,
	j FeatureExportJob,
	opts BulkFeaturesOpts,
) FeatureExportResult {
	result := FeatureExportResult{
		TrackID: j.TrackID,
		Success: false,
		Files:   []string{},
	}

	features, err := e.service.AudioFeatures(ctx, j.TrackID)
	if err != nil {
		result.Error = fmt.Errorf("failed to fetch features: %w", err)
		return result
	}

	result.Features = features
	e.cacheFeatures(*features)

	var file string

	switch opts.Format {
	case "csv":
		file, err = formatter.WriteFeaturesCSV(features, filepath.Join(opts.OutputDir, fmt.Sprintf("%s_features.csv", features.TrackID)))
	case "markdown":
		file, err = formatter.WriteFeaturesMarkdown(features, filepath.Join(opts.OutputDir, fmt.Sprintf("%s_features.md", features.TrackID)))
	case "txt":
		file, err = formatter.WriteFeaturesText(features, filepath.Join(opts.OutputDir, fmt.Sprintf("%s_features.txt", features.TrackID)))
	case "json":
		fallthrough
	default:
		file, err = formatter.WriteFeaturesJSON(features, filepath.Join(opts.OutputDir, fmt.Sprintf("%s_features.json", features.TrackID)))
	}

	if err != nil {
		result.Error = fmt.Errorf("export failed: %w", err)
		return result
	}

	result.Files = []string{file}
	result.Success = true
	return result
}

// manifestEntries converts export results to their manifest representation.
func manifestEntries(results []FeatureExportResult) []formatter.BulkManifestEntry {
	entries := make([]formatter.BulkManifestEntry, 0, len(results))

	for _, res := range results {
		entry := formatter.BulkManifestEntry{
			TrackID: res.TrackID,
			Status:  "failed",
			Files:   res.Files,
		}

		if res.Success {
			entry.Status = "success"
		}

		if res.Error != nil {
			entry.Error = res.Error.Error()
		}

		entries = append(entries, entry)
	}

	return entries
}
