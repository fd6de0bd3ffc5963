// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/videomark/internal/models"
)

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, 0, time.Now())
}

// HealthReady reports remote connectivity and the enrichment circuit state.
//
// The service stays usable while the remote is unreachable (enrichable
// fields are simply left unresolved), so a degraded status still answers 200.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	online := h.connectivity != nil && h.connectivity.Online(r.Context())
	status := "healthy"
	if !online {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:        status,
		Version:       Version,
		RemoteOnline:  online,
		CachedRecords: h.records.Len(),
		Uptime:        time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		health.CircuitBreaker = h.breaker.State()
		if health.CircuitBreaker == "open" {
			health.Status = "degraded"
		}
	}

	respondSuccess(w, health, 0, start)
}
