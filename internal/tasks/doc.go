// Package tasks orchestrates catalog discovery operations with real-time progress reporting.
//
// # Core Operations
//
// The [DiscoveryEngine] interface defines two operations:
//
//  1. [DiscoveryEngine.Analyze] : Search-and-analyze pipeline
//     - Searches the catalog for a free-text query
//     - Fetches audio features for every result
//     - Records per-track failures without aborting the run
//     - Returns detailed results including the success rate
//
//  2. [DiscoveryEngine.BulkFeatures] : Concurrent feature export
//     - Fans track IDs out to a bounded worker pool
//     - Paces API calls through a shared rate limiter
//     - Writes one file per track in the requested format
//     - Writes a JSON manifest summarizing the run
//
// # Progress Reporting
//
// Long-running operations accept a progress channel. Updates are sent with a
// non-blocking select so a slow or absent consumer never stalls the task.
// Pass nil to disable progress reporting.
//
// # Caching
//
// When the engine is constructed with a [TrackCacher], tracks and feature
// vectors are cached as they are fetched. Cache failures are swallowed;
// caching is an optimization, not a requirement.
package tasks
