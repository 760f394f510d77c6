package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/djx/internal/formatter"
	"github.com/desertthunder/djx/internal/services"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Features fetches the audio analysis vector for a single track.
//
// The track may be given as a bare ID, a spotify:track: URI, or a share link.
func (r *Runner) Features(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	format := cmd.String("format")
	outputFile := cmd.String("output")
	pretty := cmd.Bool("pretty")

	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: track ID is required", shared.ErrMissingArgument)
	}

	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	trackID := services.NormalizeTrackID(id)
	r.logger.Infof("fetching audio features for %v", trackID)

	features, err := r.service.AudioFeatures(ctx, trackID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if outputFile != "" {
		var written string
		switch format {
		case "json":
			written, err = formatter.WriteFeaturesJSON(features, outputFile)
		case "csv":
			written, err = formatter.WriteFeaturesCSV(features, outputFile)
		case "markdown", "md":
			written, err = formatter.WriteFeaturesMarkdown(features, outputFile)
		case "txt", "text":
			written, err = formatter.WriteFeaturesText(features, outputFile)
		default:
			return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
		}
		if err != nil {
			return fmt.Errorf("failed to write features: %w", err)
		}
		return r.writePlain("✓ Features written to %s\n", written)
	}

	if format == "json" {
		return r.writeJSON(features, pretty)
	}

	var data []byte
	switch format {
	case "csv":
		data, err = formatter.FeaturesToCSV(features)
	case "markdown", "md":
		data, err = formatter.FeaturesToMarkdown(features)
	case "txt", "text":
		data, err = formatter.FeaturesToText(features)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format features: %w", err)
	}

	return r.writePlain("%s", data)
}

// FeaturesBulk exports audio features for many tracks through the worker pool.
func (r *Runner) FeaturesBulk(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track ID is required", shared.ErrMissingArgument)
	}

	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	opts := tasks.BulkFeaturesOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate-limit"),
	}

	r.logger.Infof("bulk exporting features for %d tracks", len(ids))

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go r.drainProgress(progress, done)

	result, err := r.engine.BulkFeatures(ctx, progress, ids, opts)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Bulk Feature Export")
	r.writePlain("Tracks:     %d\n", result.TotalTracks)
	r.writePlain("Exported:   %d\n", result.SuccessfulExports)
	r.writePlain("Failed:     %d\n", result.FailedExports)
	r.writePlain("Output:     %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest:   %s\n", result.ManifestPath)
	}

	return nil
}
