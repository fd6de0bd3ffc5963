// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/videomark/internal/validation"
	"github.com/tomtom215/videomark/internal/viewing"
)

// ViewingsRequest holds the query parameters of GET /api/v1/viewings.
type ViewingsRequest struct {
	Service  string `json:"service" validate:"omitempty,oneof=youtube netflix paravi tver fod nicovideo nhkondemand dtv abematv amazon iijtwilightconcert gyao"`
	Year     int    `json:"year" validate:"required_with=Month,omitempty,min=1970,max=9999"`
	Month    int    `json:"month" validate:"required_with=Year,omitempty,min=1,max=12"`
	Timezone string `json:"tz" validate:"omitempty,timezone"`
}

// Filter converts the request into a catalog filter.
func (req *ViewingsRequest) Filter() (viewing.Filter, error) {
	f := viewing.Filter{
		Service: req.Service,
		Year:    req.Year,
		Month:   time.Month(req.Month),
	}
	if req.Timezone != "" {
		loc, err := time.LoadLocation(req.Timezone)
		if err != nil {
			return f, err
		}
		f.Location = loc
	}
	return f, nil
}

// Viewings lists stored viewings, oldest first.
func (h *Handler) Viewings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	req := ViewingsRequest{
		Service:  q.Get("service"),
		Timezone: q.Get("tz"),
	}
	var ok bool
	if req.Year, ok = intParam(w, r, "year"); !ok {
		return
	}
	if req.Month, ok = intParam(w, r, "month"); !ok {
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	filter, err := req.Filter()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "tz must be an IANA time zone", nil)
		return
	}

	summaries, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeStorage, "Failed to list viewings", err)
		return
	}

	respondSuccess(w, summaries, len(summaries), start)
}

// Viewing returns one viewing with every field resolved.
func (h *Handler) Viewing(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	rec, err := h.records.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeStorage, "Failed to load viewing", err)
		return
	}
	if !rec.Valid() {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Viewing not found", nil)
		return
	}

	detail, err := rec.Detail(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeStorage, "Failed to resolve viewing", err)
		return
	}

	respondSuccess(w, detail, 1, start)
}

// Regions lists the distinct regions viewings were played from.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	regions, err := h.catalog.Regions(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeStorage, "Failed to list regions", err)
		return
	}

	respondSuccess(w, regions, len(regions), start)
}

// intParam parses an optional integer query parameter, answering 400 when
// it is malformed.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, name+" must be an integer", nil)
		return 0, false
	}
	return v, true
}
