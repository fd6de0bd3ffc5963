// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

// Package metrics provides Prometheus instrumentation for VideoMark.
//
// All collectors are registered with the default registry through promauto
// and exposed by the API router at /metrics.
//
// # Metric Families
//
//   - storage_*: Storage Port operations per backend (badger, redis, memory)
//   - enrichment_*: Remote Enrichment Port requests and latency per endpoint
//   - viewing_field_resolutions_total: how each enrichable field was resolved
//     (cache, remote, offline, unmatched, failed)
//   - record_cache_*: Repository hit/miss counters for initialized records
//   - circuit_breaker_*: gobreaker state for the remote client
//   - api_*: HTTP request counters and latency
//
// # Example
//
//	start := time.Now()
//	err := store.Save(ctx, id, attrs)
//	metrics.RecordStorageOperation("badger", "save", time.Since(start), err)
package metrics
