// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/spotify"
)

// Search limits supported by the /search endpoint.
const (
	defaultSearchLimit = 5
	minSearchLimit     = 1
	maxSearchLimit     = 20
)

type externalIDs struct {
	ISRC string `json:"isrc"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	ExternalIDs  externalIDs     `json:"external_ids"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Popularity   int             `json:"popularity"`
	PreviewURL   string          `json:"preview_url"`
	URI          string          `json:"uri"`
}

// SpotifySearchResponse represents the tracks portion of a search response.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// SpotifyAudioFeatures represents the audio analysis vector for one track.
// Entries in a bulk response are null for unknown IDs, hence the pointers in
// [spotifyAudioFeaturesResponse].
type SpotifyAudioFeatures struct {
	ID               string  `json:"id"`
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

type spotifyAudioFeaturesResponse struct {
	AudioFeatures []*SpotifyAudioFeatures `json:"audio_features"`
}

// SpotifyService implements the Service interface for Spotify API interactions.
type SpotifyService struct {
	client *spotify.Client
}

var _ Service = (*SpotifyService)(nil)

// NewSpotifyService creates a Spotify catalog service on top of an
// authenticated client.
func NewSpotifyService(client *spotify.Client) *SpotifyService {
	return &SpotifyService{client: client}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Client exposes the underlying API client for raw requests.
func (s *SpotifyService) Client() *spotify.Client {
	return s.client
}

// NormalizeTrackID extracts a bare track ID from the forms users paste:
// "spotify:track:<id>" URIs, open.spotify.com share links (with or without
// query parameters), and plain IDs.
func NormalizeTrackID(id string) string {
	id = strings.TrimSpace(id)

	if rest, ok := strings.CutPrefix(id, "spotify:track:"); ok {
		return rest
	}

	if _, rest, ok := strings.Cut(id, "open.spotify.com/track/"); ok {
		id, _, _ = strings.Cut(rest, "?")
		return id
	}

	return id
}

// SearchTracks searches the catalog for tracks matching query. Limit defaults
// to 5 and is clamped to the endpoint's 1-20 range. The configured market, if
// any, restricts results to tracks playable there.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	if limit == 0 {
		limit = defaultSearchLimit
	}

	limit = min(max(limit, minSearchLimit), maxSearchLimit)

	params := url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(limit)},
	}

	if market := s.client.Market(); market != "" {
		params.Set("market", market)
	}

	var response SpotifySearchResponse
	if err := s.client.Get(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		tracks = append(tracks, toTrack(item))
	}

	return tracks, nil
}

// AudioFeatures retrieves the audio analysis metrics for a single track.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatures, error) {
	trackID = NormalizeTrackID(trackID)
	if trackID == "" {
		return nil, fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	params := url.Values{"ids": {trackID}}

	var response spotifyAudioFeaturesResponse
	if err := s.client.Get(ctx, "/audio-features", params, &response); err != nil {
		return nil, err
	}

	if len(response.AudioFeatures) == 0 || response.AudioFeatures[0] == nil {
		return nil, fmt.Errorf("%w for track %s", shared.ErrNoAudioFeatures, trackID)
	}

	return toAudioFeatures(*response.AudioFeatures[0]), nil
}

// Track retrieves a single track by ID.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*models.Track, error) {
	trackID = NormalizeTrackID(trackID)
	if trackID == "" {
		return nil, fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	var response SpotifyTrack
	if err := s.client.Get(ctx, "/tracks/"+trackID, nil, &response); err != nil {
		return nil, err
	}

	track := toTrack(response)
	return &track, nil
}

func toTrack(st SpotifyTrack) models.Track {
	names := make([]string, 0, len(st.Artists))
	for _, artist := range st.Artists {
		names = append(names, artist.Name)
	}

	return models.Track{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     strings.Join(names, ", "),
		Album:      st.Album.Name,
		Duration:   st.DurationMS / 1000,
		ISRC:       st.ExternalIDs.ISRC,
		URL:        st.ExternalURLs.Spotify,
		PreviewURL: st.PreviewURL,
	}
}

func toAudioFeatures(sf SpotifyAudioFeatures) *models.AudioFeatures {
	return &models.AudioFeatures{
		TrackID:          sf.ID,
		Tempo:            sf.Tempo,
		Danceability:     sf.Danceability,
		Energy:           sf.Energy,
		Valence:          sf.Valence,
		Acousticness:     sf.Acousticness,
		Instrumentalness: sf.Instrumentalness,
		Liveness:         sf.Liveness,
		Speechiness:      sf.Speechiness,
		Loudness:         sf.Loudness,
		TimeSignature:    sf.TimeSignature,
	}
}
