package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleTrack() models.Track {
	return models.Track{
		ID:         "track_1",
		Title:      "Glue",
		Artist:     "Bicep",
		Album:      "Bicep",
		Duration:   215,
		ISRC:       "GBCFB1700392",
		URL:        "https://open.spotify.com/track/track_1",
		PreviewURL: "https://p.scdn.co/mp3-preview/track_1",
	}
}

func TestTrackRepository(t *testing.T) {
	t.Run("create and get round trip", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		track := models.NewPersistedTrack(0, "spotify", "track_1", sampleTrack())
		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if track.ID() == "" {
			t.Error("expected generated id")
		}

		if track.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", track.Sequence())
		}

		got, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if got.Title() != "Glue" || got.URL() != "https://open.spotify.com/track/track_1" {
			t.Errorf("unexpected track: %s", got)
		}
	})

	t.Run("lookup by service id and isrc", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		if err := repo.Create(models.NewPersistedTrack(0, "spotify", "track_1", sampleTrack())); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		byService, err := repo.GetByServiceID("spotify", "track_1")
		if err != nil {
			t.Fatalf("failed to get by service id: %v", err)
		}

		byISRC, err := repo.GetByISRC("GBCFB1700392")
		if err != nil {
			t.Fatalf("failed to get by isrc: %v", err)
		}

		if byService.ID() != byISRC.ID() {
			t.Error("expected both lookups to return the same row")
		}
	})

	t.Run("duplicate service id is rejected", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		if err := repo.Create(models.NewPersistedTrack(0, "spotify", "track_1", sampleTrack())); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if err := repo.Create(models.NewPersistedTrack(0, "spotify", "track_1", sampleTrack())); err == nil {
			t.Error("expected a UNIQUE constraint error")
		}
	})

	t.Run("soft delete hides the row", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		track := models.NewPersistedTrack(0, "spotify", "track_1", sampleTrack())
		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if err := repo.Delete(track.ID()); err != nil {
			t.Fatalf("failed to delete track: %v", err)
		}

		if _, err := repo.Get(track.ID()); err == nil {
			t.Error("expected deleted track to be hidden")
		}

		if err := repo.Delete(track.ID()); err == nil {
			t.Error("expected second delete to fail")
		}
	})

	t.Run("list filters by artist", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		first := sampleTrack()
		second := sampleTrack()
		second.ID = "track_2"
		second.Title = "Opal"
		second.Artist = "Four Tet"
		second.ISRC = ""

		if err := repo.Create(models.NewPersistedTrack(0, "spotify", "track_1", first)); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if err := repo.Create(models.NewPersistedTrack(0, "spotify", "track_2", second)); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		tracks, err := repo.List(map[string]any{"artist": "Four Tet"})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		if len(tracks) != 1 || tracks[0].Title() != "Opal" {
			t.Errorf("unexpected results: %v", tracks)
		}
	})

	t.Run("update modifies fields", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		track := models.NewPersistedTrack(0, "spotify", "track_1", sampleTrack())
		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		dto := track.Track()
		dto.Album = "Bicep (Deluxe)"
		track.SetTrack(dto)

		if err := repo.Update(track); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}

		got, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if got.Album() != "Bicep (Deluxe)" {
			t.Errorf("expected updated album, got %s", got.Album())
		}
	})
}

func sampleFeatures() models.AudioFeatures {
	return models.AudioFeatures{
		TrackID:       "track_1",
		Tempo:         129.0,
		Danceability:  0.72,
		Energy:        0.85,
		Valence:       0.43,
		Loudness:      -7.2,
		TimeSignature: 4,
	}
}

func TestFeatureRepository(t *testing.T) {
	t.Run("create and lookup by track id", func(t *testing.T) {
		repo := NewFeatureRepository(newTestDB(t))

		features := models.NewPersistedFeatures(0, sampleFeatures())
		if err := repo.Create(features); err != nil {
			t.Fatalf("failed to create features: %v", err)
		}

		got, err := repo.GetByTrackID("track_1")
		if err != nil {
			t.Fatalf("failed to get features: %v", err)
		}

		if got.Features().Tempo != 129.0 {
			t.Errorf("unexpected tempo: %f", got.Features().Tempo)
		}

		if got.Features().TimeSignature != 4 {
			t.Errorf("unexpected time signature: %d", got.Features().TimeSignature)
		}
	})

	t.Run("one vector per track", func(t *testing.T) {
		repo := NewFeatureRepository(newTestDB(t))

		if err := repo.Create(models.NewPersistedFeatures(0, sampleFeatures())); err != nil {
			t.Fatalf("failed to create features: %v", err)
		}

		if err := repo.Create(models.NewPersistedFeatures(0, sampleFeatures())); err == nil {
			t.Error("expected a UNIQUE constraint error")
		}
	})

	t.Run("soft delete hides the vector", func(t *testing.T) {
		repo := NewFeatureRepository(newTestDB(t))

		features := models.NewPersistedFeatures(0, sampleFeatures())
		if err := repo.Create(features); err != nil {
			t.Fatalf("failed to create features: %v", err)
		}

		if err := repo.Delete(features.ID()); err != nil {
			t.Fatalf("failed to delete features: %v", err)
		}

		if _, err := repo.GetByTrackID("track_1"); err == nil {
			t.Error("expected deleted features to be hidden")
		}
	})
}

func TestTrackCacheAdapter(t *testing.T) {
	db := newTestDB(t)
	tracks := NewTrackRepository(db)
	features := NewFeatureRepository(db)
	adapter := NewTrackCacheAdapter(tracks, features)

	t.Run("caches tracks idempotently", func(t *testing.T) {
		for range 2 {
			if err := adapter.CacheTrack("spotify", "track_1", sampleTrack()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		all, err := tracks.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}

		if len(all) != 1 {
			t.Errorf("expected 1 cached track, got %d", len(all))
		}
	})

	t.Run("caches features idempotently", func(t *testing.T) {
		for range 2 {
			if err := adapter.CacheFeatures(sampleFeatures()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if _, err := features.GetByTrackID("track_1"); err != nil {
			t.Errorf("expected cached features: %v", err)
		}
	})
}
