// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

// Package cache provides a generic, thread-safe LRU cache with TTL expiry.
//
// The viewing repository uses it to keep initialized records in memory so that
// remotely enriched fields resolved by one API request are reused by the next.
package cache
