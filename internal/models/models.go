// package models defines the data model for the djx track discovery tool
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track represents a music track from the Spotify catalog
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"` // Artist names joined with ", "
	Album      string `json:"album"`
	Duration   int    `json:"duration"` // Duration in seconds
	ISRC       string `json:"isrc,omitempty"`
	URL        string `json:"url,omitempty"`         // open.spotify.com link
	PreviewURL string `json:"preview_url,omitempty"` // 30 second audio preview
}

// AudioFeatures represents Spotify's audio analysis metrics for a single track.
type AudioFeatures struct {
	TrackID          string  `json:"track_id"`
	Tempo            float64 `json:"tempo"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Speechiness      float64 `json:"speechiness"`
	Loudness         float64 `json:"loudness"`
	TimeSignature    int     `json:"time_signature"`
}

// SearchResult represents a search query and its matching tracks.
type SearchResult struct {
	Query  string  `json:"query"`
	Tracks []Track `json:"tracks"`
}
