package models

import (
	"fmt"
	"time"
)

// PersistedTrack is a database-backed track cached from a catalog service.
//
// Wraps a [Track] DTO with identity, sequence, and lifecycle timestamps.
type PersistedTrack struct {
	id        string
	sequence  int
	service   string
	serviceID string
	track     Track
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*PersistedTrack)(nil)

// NewPersistedTrack creates a PersistedTrack from a service-scoped track DTO.
//
// The ID is assigned by the repository on Create.
func NewPersistedTrack(sequence int, service, serviceID string, track Track) *PersistedTrack {
	now := time.Now()
	return &PersistedTrack{
		sequence:  sequence,
		service:   service,
		serviceID: serviceID,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

func (t *PersistedTrack) ID() string            { return t.id }
func (t *PersistedTrack) Sequence() int         { return t.sequence }
func (t *PersistedTrack) Service() string       { return t.service }
func (t *PersistedTrack) ServiceID() string     { return t.serviceID }
func (t *PersistedTrack) Title() string         { return t.track.Title }
func (t *PersistedTrack) Artist() string        { return t.track.Artist }
func (t *PersistedTrack) Album() string         { return t.track.Album }
func (t *PersistedTrack) Duration() int         { return t.track.Duration }
func (t *PersistedTrack) ISRC() string          { return t.track.ISRC }
func (t *PersistedTrack) URL() string           { return t.track.URL }
func (t *PersistedTrack) PreviewURL() string    { return t.track.PreviewURL }
func (t *PersistedTrack) Track() Track          { return t.track }
func (t *PersistedTrack) CreatedAt() time.Time  { return t.createdAt }
func (t *PersistedTrack) UpdatedAt() time.Time  { return t.updatedAt }
func (t *PersistedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *PersistedTrack) String() string {
	return fmt.Sprintf("%s - %s (%s:%s)", t.track.Artist, t.track.Title, t.service, t.serviceID)
}

func (t *PersistedTrack) SetID(id string)            { t.id = id }
func (t *PersistedTrack) SetSequence(seq int)        { t.sequence = seq }
func (t *PersistedTrack) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *PersistedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }
func (t *PersistedTrack) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *PersistedTrack) SetTrack(track Track)       { t.track = track }

// Validate checks required fields before persistence.
func (t *PersistedTrack) Validate() error {
	if t.id == "" {
		return fmt.Errorf("track id is required")
	}
	if t.service == "" {
		return fmt.Errorf("track service is required")
	}
	if t.serviceID == "" {
		return fmt.Errorf("track service_id is required")
	}
	if t.track.Title == "" {
		return fmt.Errorf("track title is required")
	}
	return nil
}
