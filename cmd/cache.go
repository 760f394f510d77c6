package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/djx/internal/repositories"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheTracks lists tracks cached in the local database.
//
// Tracks are cached opportunistically whenever search or feature operations
// run with the database set up.
func (r *Runner) CacheTracks(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.String("artist")
	isrc := cmd.String("isrc")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if _, err := os.Stat(r.config.Database.Path); err != nil {
		return fmt.Errorf("%w: database not found at %s, run 'djx setup database' first", shared.ErrMissingConfig, r.config.Database.Path)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewTrackRepository(db)

	criteria := map[string]any{}
	if artist != "" {
		criteria["artist"] = artist
	}
	if isrc != "" {
		criteria["isrc"] = isrc
	}

	tracks, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	if useJSON {
		items := make([]map[string]any, len(tracks))
		for i, t := range tracks {
			items[i] = map[string]any{
				"id":         t.ID(),
				"service":    t.Service(),
				"service_id": t.ServiceID(),
				"title":      t.Title(),
				"artist":     t.Artist(),
				"album":      t.Album(),
				"duration":   t.Duration(),
				"isrc":       t.ISRC(),
				"url":        t.URL(),
			}
		}
		return r.writeJSON(items, pretty)
	}

	r.writePlain("Found %d cached tracks:\n\n", len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s - %s [%s]\n", i+1, t.Artist(), t.Title(), shared.FormatDuration(t.Duration()))
		if t.Album() != "" {
			r.writePlain("   Album: %s\n", t.Album())
		}
		if t.ISRC() != "" {
			r.writePlain("   ISRC: %s\n", t.ISRC())
		}
		r.writePlain("   ID: %s (%s)\n", t.ServiceID(), t.Service())
		r.writePlain("\n")
	}

	return nil
}
