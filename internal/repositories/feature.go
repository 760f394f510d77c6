package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
)

// FeatureRepository implements models.Repository[*models.PersistedFeatures]
// for cached audio analysis vectors.
//
// Feature rows are keyed by track_id with a UNIQUE constraint so each track
// carries at most one live vector.
type FeatureRepository struct {
	db *sql.DB
}

// NewFeatureRepository creates a new FeatureRepository with the given database connection
func NewFeatureRepository(db *sql.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

// Create inserts a new [models.PersistedFeatures] into the database with generated ID and sequence
func (r *FeatureRepository) Create(features *models.PersistedFeatures) error {
	sequence, err := NextSequence(r.db, "audio_features")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	features.SetID(id)
	features.SetSequence(sequence)

	if err := features.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	f := features.Features()

	query := `
		INSERT INTO audio_features (id, sequence, track_id, tempo, danceability, energy, valence, acousticness, instrumentalness, liveness, speechiness, loudness, time_signature, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		f.TrackID,
		f.Tempo,
		f.Danceability,
		f.Energy,
		f.Valence,
		f.Acousticness,
		f.Instrumentalness,
		f.Liveness,
		f.Speechiness,
		f.Loudness,
		f.TimeSignature,
		features.CreatedAt(),
		features.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audio features: %w", err)
	}

	return nil
}

// Get retrieves a feature vector by ID, excluding soft-deleted rows
func (r *FeatureRepository) Get(id string) (*models.PersistedFeatures, error) {
	query := featureSelect + " WHERE id = ? AND deleted_at IS NULL"

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves the feature vector cached for a track
func (r *FeatureRepository) GetByTrackID(trackID string) (*models.PersistedFeatures, error) {
	query := featureSelect + " WHERE track_id = ? AND deleted_at IS NULL"

	return r.scanOne(r.db.QueryRow(query, trackID))
}

// Update modifies an existing feature vector in the database
func (r *FeatureRepository) Update(features *models.PersistedFeatures) error {
	if err := features.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	features.SetUpdatedAt(now)

	f := features.Features()

	query := `
		UPDATE audio_features
		SET tempo = ?, danceability = ?, energy = ?, valence = ?, acousticness = ?, instrumentalness = ?, liveness = ?, speechiness = ?, loudness = ?, time_signature = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		f.Tempo,
		f.Danceability,
		f.Energy,
		f.Valence,
		f.Acousticness,
		f.Instrumentalness,
		f.Liveness,
		f.Speechiness,
		f.Loudness,
		f.TimeSignature,
		now,
		features.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update audio features: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("audio features not found or already deleted: %s", features.ID())
	}

	return nil
}

// Delete soft-deletes a feature vector by ID
func (r *FeatureRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE audio_features
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete audio features: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("audio features not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all feature vectors matching the given criteria, excluding soft-deleted rows
func (r *FeatureRepository) List(criteria map[string]any) ([]*models.PersistedFeatures, error) {
	query := featureSelect + " WHERE deleted_at IS NULL"

	args := []any{}

	if trackID, ok := criteria["track_id"].(string); ok && trackID != "" {
		query += " AND track_id = ?"
		args = append(args, trackID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audio features: %w", err)
	}
	defer rows.Close()

	var all []*models.PersistedFeatures
	for rows.Next() {
		features, err := scanFeatures(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, features)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return all, nil
}

const featureSelect = `
	SELECT id, sequence, track_id, tempo, danceability, energy, valence, acousticness, instrumentalness, liveness, speechiness, loudness, time_signature, created_at, updated_at, deleted_at
	FROM audio_features
`

// scanOne scans a single [sql.Row] into a [models.PersistedFeatures]
func (r *FeatureRepository) scanOne(row *sql.Row) (*models.PersistedFeatures, error) {
	features, err := scanFeatures(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("audio features not found")
	}
	if err != nil {
		return nil, err
	}

	return features, nil
}

// scanFeatures scans a row into a [models.PersistedFeatures]
func scanFeatures(row scanner) (*models.PersistedFeatures, error) {
	var (
		id        string
		sequence  int
		dto       models.AudioFeatures
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&id,
		&sequence,
		&dto.TrackID,
		&dto.Tempo,
		&dto.Danceability,
		&dto.Energy,
		&dto.Valence,
		&dto.Acousticness,
		&dto.Instrumentalness,
		&dto.Liveness,
		&dto.Speechiness,
		&dto.Loudness,
		&dto.TimeSignature,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan audio features: %w", err)
	}

	features := models.NewPersistedFeatures(sequence, dto)
	features.SetID(id)
	features.SetCreatedAt(createdAt)
	features.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		features.SetDeletedAt(&deletedAt.Time)
	}

	return features, nil
}
