// Package models defines domain entities and persistence interfaces for the djx track discovery tool.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Spotify catalog data
//   - [Track] : Song metadata from search results with catalog links
//   - [AudioFeatures] : Per-track analysis metrics (tempo, energy, etc.)
//   - [SearchResult] : A query together with its matching tracks
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedTrack] : Cached tracks with ISRC for matching optimization
//   - [PersistedFeatures] : Cached audio feature vectors keyed by track ID
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
