// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package api

import (
	"time"

	"github.com/tomtom215/videomark/internal/enrichment"
	"github.com/tomtom215/videomark/internal/viewing"
)

// Version is reported by the readiness endpoint. Overridden at build time.
var Version = "dev"

// BreakerState reports the state of the enrichment circuit breaker.
type BreakerState interface {
	State() string
}

// Handler serves the API endpoints.
type Handler struct {
	records      *viewing.Repository
	catalog      *viewing.Catalog
	connectivity enrichment.Connectivity
	breaker      BreakerState
	startTime    time.Time
}

// NewHandler creates a handler. connectivity and breaker may be nil when
// remote enrichment is disabled.
func NewHandler(records *viewing.Repository, catalog *viewing.Catalog, connectivity enrichment.Connectivity, breaker BreakerState) *Handler {
	return &Handler{
		records:      records,
		catalog:      catalog,
		connectivity: connectivity,
		breaker:      breaker,
		startTime:    time.Now(),
	}
}
