package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/djx/internal/formatter"
	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog and renders results in the requested format.
//
// With --analyze, audio features are fetched for every result through the
// discovery engine with live progress output.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")
	format := cmd.String("format")
	outputFile := cmd.String("output")
	analyze := cmd.Bool("analyze")
	pretty := cmd.Bool("pretty")

	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	if analyze {
		return r.searchAndAnalyze(ctx, query, limit)
	}

	r.logger.Infof("searching catalog for %q with limit %v", query, limit)

	tracks, err := r.service.SearchTracks(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	result := &models.SearchResult{Query: query, Tracks: tracks}

	if format == "json" && outputFile == "" {
		return r.writeJSON(result, pretty)
	}

	var data []byte
	switch format {
	case "json":
		data, err = shared.MarshalJSON(result, pretty)
	case "csv":
		data, err = formatter.SearchToCSV(result)
	case "markdown", "md":
		data, err = formatter.SearchToMarkdown(result)
	case "txt", "text":
		data, err = formatter.SearchToText(result)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.logger.Infof("results written to %v", outputFile)
		return r.writePlain("✓ Results written to %s\n", outputFile)
	}

	return r.writePlain("%s", data)
}

// searchAndAnalyze runs the full search-and-analyze pipeline, streaming
// progress lines while features are fetched.
func (r *Runner) searchAndAnalyze(ctx context.Context, query string, limit int) error {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go r.drainProgress(progress, done)

	result, err := r.engine.Analyze(ctx, progress, query, limit)
	close(progress)
	<-done

	if err != nil {
		if result == nil {
			return err
		}
		r.writePlainln("⚠ %v", err)
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Analysis: %s", result.Query))

	for i, analysis := range result.Analyses {
		track := analysis.Track
		r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
		if analysis.Error != nil {
			r.writePlain("   ✗ features unavailable: %v\n", analysis.Error)
			continue
		}
		f := analysis.Features
		r.writePlain("   Tempo: %.1f BPM  Energy: %.3f  Danceability: %.3f  Valence: %.3f\n",
			f.Tempo, f.Energy, f.Danceability, f.Valence)
	}

	r.writePlain("\nAnalyzed %d/%d tracks (%.1f%%)\n",
		result.SuccessCount, result.TotalTracks, result.SuccessPercent)

	return nil
}
