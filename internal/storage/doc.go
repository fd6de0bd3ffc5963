// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package storage provides the key-value Storage Port for viewing records.

Records are stored as JSON objects keyed by their opaque record id. Three
adapters implement Store:

  - BadgerStore: embedded BadgerDB, the default for a single host
  - RedisStore: Redis, for sharing records with other writers
  - MemoryStore: process memory, for tests and ephemeral runs

Load returns (nil, nil) when nothing is stored for an id. Save overwrites the
whole record. Unknown attribute keys round-trip untouched.

Every adapter returned by Open is wrapped with Instrument so that operation
latency and outcome are exported as Prometheus metrics.
*/
package storage
