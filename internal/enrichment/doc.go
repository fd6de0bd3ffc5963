// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package enrichment implements the Remote Enrichment Port: the client for the
statistics service that provides fixed quality scores (QoE) and region/ISP
classification for viewings, plus connectivity detection.

# Endpoints

Both endpoints take a JSON POST body and answer with a JSON array. An empty
array is a normal answer meaning "not known yet".

	POST {base}/fixed_qoe   {"ids":[{"session_id":"s","video_id":"v"}]}
	                        -> [{"viewing_id":"s_v","qoe":4.2}]
	POST {base}/stats/info  {"video":"v","session":"s"}
	                        -> [{"session":"s","video":"v","country":"JP","subdivision":"13","isp":"..."}]

Any non-200 status is reported as a *StatusError.

# Resilience

HTTPClient applies a token-bucket rate limit (golang.org/x/time/rate) to
outbound requests. CircuitBreakerClient wraps any Client with a
sony/gobreaker circuit breaker so that an unreachable service is not hammered
by every record read.

# Connectivity

Connectivity reports whether lookups should be attempted at all. Probe is a
supervised service that periodically dials the statistics host; Static is a
fixed answer used when the service is configured offline and in tests.
*/
package enrichment
