// Package repositories implements the persistence layer for cached catalog data.
//
// # Repositories
//
//   - [TrackRepository] : tracks cached from searches and lookups
//   - [FeatureRepository] : audio analysis vectors keyed by track ID
//
// Both use soft deletes (deleted_at timestamps) and per-table sequence
// counters maintained by [NextSequence].
//
// # Adapters
//
// [TrackCacheAdapter] bridges the repositories to the caching interfaces used
// by background tasks, swallowing UNIQUE-constraint violations so tasks can
// cache opportunistically without checking for prior state.
package repositories
