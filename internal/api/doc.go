// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package api serves stored viewings over HTTP using the chi router.

Endpoints:

	GET /api/v1/health/live      process liveness
	GET /api/v1/health/ready     remote connectivity, breaker state, cache size
	GET /api/v1/viewings         summaries, filtered by ?service=&year=&month=&tz=
	GET /api/v1/viewings/{id}    one fully resolved viewing
	GET /api/v1/regions          distinct country/subdivision pairs
	GET /metrics                 Prometheus exposition

Every JSON response uses the models.APIResponse envelope. Errors carry a
machine-readable code (VALIDATION_ERROR, NOT_FOUND, STORAGE_ERROR) next to a
human-readable message.

Reading /api/v1/viewings/{id} may trigger remote enrichment of QoE and
region; the result is persisted, so later reads are served from storage.
*/
package api
