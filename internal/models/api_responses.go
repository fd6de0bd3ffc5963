// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       int       `json:"count,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: No stored viewing for the requested id
//   - STORAGE_ERROR: Storage backend failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ViewingSummary is the list view of a stored viewing.
type ViewingSummary struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	VideoID   string    `json:"video_id"`
	Location  string    `json:"location"`
	Service   string    `json:"service,omitempty"`
	StartTime time.Time `json:"start_time"`
}

// ViewingDetail is the fully resolved view of one viewing, including the
// remotely enriched fields when they could be resolved.
type ViewingDetail struct {
	ID           string          `json:"id"`
	ViewingID    string          `json:"viewing_id"`
	Title        string          `json:"title"`
	Thumbnail    string          `json:"thumbnail,omitempty"`
	Location     string          `json:"location"`
	TransferSize float64         `json:"transfer_size"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Quality      QualitySnapshot `json:"quality"`
	QoE          *float64        `json:"qoe"`
	Region       *Region         `json:"region"`
}

// RegionKey is a distinct country/subdivision pair.
type RegionKey struct {
	Country     string `json:"country"`
	Subdivision string `json:"subdivision"`
}

// HealthStatus is the readiness view of the service.
type HealthStatus struct {
	Status         string  `json:"status"` // "healthy" or "degraded"
	Version        string  `json:"version"`
	RemoteOnline   bool    `json:"remote_online"`
	CircuitBreaker string  `json:"circuit_breaker,omitempty"`
	CachedRecords  int     `json:"cached_records"`
	Uptime         float64 `json:"uptime_seconds"`
}
