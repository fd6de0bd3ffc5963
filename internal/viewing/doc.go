// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package viewing implements the viewing record: a lazily hydrated view over one
stored playback session.

A Record is created from an opaque id and an optional partial state. Init
loads the stored state when the identifying fields are missing. Accessors
then either answer from the in-memory snapshot or hydrate the field:

  - Title, Thumbnail, Location, TransferSize, StartTime: snapshot only
  - EndTime, Quality: derived from the snapshot and its measurement log
  - QoE, Region: resolved once from the remote statistics service and
    persisted through Save

Every accessor takes a context and returns an error so that callers cannot
tell cache-only reads from I/O-bound ones.

# Snapshots

The record never mutates its state in place. Save and Init swap in a new
models.Attributes value, and Snapshot hands out deep copies.

# Remote enrichment

QoE and Region follow the same protocol: use a cached usable value, skip the
lookup while offline, otherwise request, match and persist. Offline hosts,
failed requests and unmatched answers leave the field unresolved so that a
later read retries. Concurrent reads of the same unresolved field on one
Record share a single request (golang.org/x/sync/singleflight).

# Catalog and repository

Catalog lists stored viewings for the API, with service and month filters.
Repository keeps initialized records in an LRU so that fields resolved by one
request are reused by the next.
*/
package viewing
