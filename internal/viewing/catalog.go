// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/videomark/internal/models"
)

// Lister enumerates every stored record by id.
type Lister interface {
	List(ctx context.Context) (map[string]models.Attributes, error)
}

// Filter narrows a catalog listing. Zero fields do not filter; viewings of
// unknown services are never listed.
type Filter struct {
	// Service keeps viewings whose location maps to this service.
	Service string

	// Year and Month keep viewings that started in that calendar month,
	// evaluated in Location (UTC when nil). Both must be set to filter.
	Year     int
	Month    time.Month
	Location *time.Location
}

func (f Filter) matches(s models.ViewingSummary) bool {
	if s.Service == "" {
		return false
	}
	if f.Service != "" && s.Service != f.Service {
		return false
	}
	if f.Year != 0 && f.Month != 0 {
		loc := f.Location
		if loc == nil {
			loc = time.UTC
		}
		start := s.StartTime.In(loc)
		if start.Year() != f.Year || start.Month() != f.Month {
			return false
		}
	}
	return true
}

// Catalog answers questions about all stored viewings.
type Catalog struct {
	lister Lister
}

// NewCatalog creates a catalog over lister.
func NewCatalog(lister Lister) *Catalog {
	return &Catalog{lister: lister}
}

// List returns summaries of the stored viewings matching f, oldest first.
// Viewings starting at the same time are ordered by id.
func (c *Catalog) List(ctx context.Context, f Filter) ([]models.ViewingSummary, error) {
	all, err := c.summaries(ctx)
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, s := range all {
		if f.matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Regions returns the distinct country/subdivision pairs of stored viewings
// that have a region, in the order they were first seen walking the viewings
// oldest first.
func (c *Catalog) Regions(ctx context.Context) ([]models.RegionKey, error) {
	records, err := c.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list viewings: %w", err)
	}

	ids := sortedByStart(records)
	seen := make(map[models.RegionKey]struct{})
	regions := make([]models.RegionKey, 0)
	for _, id := range ids {
		region, ok := records[id].Region()
		if !ok {
			continue
		}
		key := models.RegionKey{Country: region.Country, Subdivision: region.Subdivision}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		regions = append(regions, key)
	}
	return regions, nil
}

func (c *Catalog) summaries(ctx context.Context) ([]models.ViewingSummary, error) {
	records, err := c.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list viewings: %w", err)
	}

	ids := sortedByStart(records)
	out := make([]models.ViewingSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, summarize(id, records[id]))
	}
	return out, nil
}

func summarize(id string, attrs models.Attributes) models.ViewingSummary {
	sessionID, _ := attrs.Text(models.KeySessionID)
	videoID, _ := attrs.Text(models.KeyVideoID)
	location, _ := attrs.Text(models.KeyLocation)
	start, _ := attrs.Time(models.KeyStartTime)
	return models.ViewingSummary{
		ID:        id,
		SessionID: sessionID,
		VideoID:   videoID,
		Location:  location,
		Service:   ServiceForLocation(location),
		StartTime: start,
	}
}

// sortedByStart returns the ids of records ordered by start time, then id.
func sortedByStart(records map[string]models.Attributes) []string {
	type keyed struct {
		id    string
		start time.Time
	}
	keys := make([]keyed, 0, len(records))
	for id, attrs := range records {
		start, _ := attrs.Time(models.KeyStartTime)
		keys = append(keys, keyed{id: id, start: start})
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].start.Equal(keys[j].start) {
			return keys[i].start.Before(keys[j].start)
		}
		return keys[i].id < keys[j].id
	})

	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k.id
	}
	return ids
}
