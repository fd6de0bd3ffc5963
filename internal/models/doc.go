// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package models defines data structures for VideoMark.

Key Components:

  - Attributes: partial viewing record as persisted by the storage layer
  - LogEntry: one timestamped measurement event of a viewing
  - QualitySnapshot: last known playback quality derived from the log
  - Region: country, subdivision and ISP of a viewing
  - ViewingPair, FixedQoE, StatsInfo: remote enrichment payloads
  - APIResponse: standardized API response wrapper

Attributes values are snapshots. Merge and Clone always return new maps so a
snapshot handed to a caller can never be modified behind its back.

Timestamps inside stored records are epoch milliseconds, matching what the
measurement extension writes. Attributes.Time and LogEntry.Date convert them
to time.Time.
*/
package models
