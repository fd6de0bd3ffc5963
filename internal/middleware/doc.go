// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: UUID-based request tracking, wired into the logging context
  - PrometheusMetrics: request count and latency per route pattern

Both are plain func(http.Handler) http.Handler values and plug directly into
chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Metrics are labeled with the chi route pattern (for example
"/api/v1/viewings/{id}") rather than the raw path, so label cardinality stays
bounded by the number of routes.
*/
package middleware
