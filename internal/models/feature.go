package models

import (
	"fmt"
	"time"
)

// PersistedFeatures is a database-backed audio feature vector cached per track.
type PersistedFeatures struct {
	id        string
	sequence  int
	features  AudioFeatures
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

var _ Model = (*PersistedFeatures)(nil)

// NewPersistedFeatures creates a PersistedFeatures from an analysis DTO.
func NewPersistedFeatures(sequence int, features AudioFeatures) *PersistedFeatures {
	now := time.Now()
	return &PersistedFeatures{
		sequence:  sequence,
		features:  features,
		createdAt: now,
		updatedAt: now,
	}
}

func (f *PersistedFeatures) ID() string              { return f.id }
func (f *PersistedFeatures) Sequence() int           { return f.sequence }
func (f *PersistedFeatures) TrackID() string         { return f.features.TrackID }
func (f *PersistedFeatures) Features() AudioFeatures { return f.features }
func (f *PersistedFeatures) CreatedAt() time.Time    { return f.createdAt }
func (f *PersistedFeatures) UpdatedAt() time.Time    { return f.updatedAt }
func (f *PersistedFeatures) DeletedAt() *time.Time   { return f.deletedAt }

func (f *PersistedFeatures) SetID(id string)              { f.id = id }
func (f *PersistedFeatures) SetSequence(seq int)          { f.sequence = seq }
func (f *PersistedFeatures) SetUpdatedAt(ts time.Time)    { f.updatedAt = ts }
func (f *PersistedFeatures) SetDeletedAt(ts *time.Time)   { f.deletedAt = ts }
func (f *PersistedFeatures) SetCreatedAt(ts time.Time)    { f.createdAt = ts }
func (f *PersistedFeatures) SetFeatures(fe AudioFeatures) { f.features = fe }

// Validate checks required fields before persistence.
func (f *PersistedFeatures) Validate() error {
	if f.id == "" {
		return fmt.Errorf("features id is required")
	}
	if f.features.TrackID == "" {
		return fmt.Errorf("features track_id is required")
	}
	return nil
}
