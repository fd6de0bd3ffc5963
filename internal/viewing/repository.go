// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/videomark/internal/cache"
	"github.com/tomtom215/videomark/internal/logging"
	"github.com/tomtom215/videomark/internal/metrics"
)

// Repository hands out initialized records and keeps valid ones in an LRU
// for ttl, so fields resolved for one caller are reused by the next. Cached
// records are reloaded from storage on every Get.
type Repository struct {
	deps    Deps
	ttl     time.Duration
	records *cache.LRU[*Record]
	loads   singleflight.Group
}

// NewRepository creates a repository holding at most capacity records.
func NewRepository(deps Deps, capacity int, ttl time.Duration) *Repository {
	return &Repository{
		deps:    deps,
		ttl:     ttl,
		records: cache.NewLRU[*Record](capacity, ttl),
	}
}

// Get returns the initialized record for id with its state freshly loaded.
// The record may be invalid when nothing is stored under id; invalid records
// are not cached.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, ErrInvalidIdentifier
	}
	if rec, ok := r.records.Get(id); ok {
		metrics.RecordCacheHits.Inc()
		if err := rec.Refresh(ctx); err != nil {
			return nil, err
		}
		if !rec.Valid() {
			r.records.Remove(id)
		}
		return rec, nil
	}
	metrics.RecordCacheMisses.Inc()

	v, err, _ := r.loads.Do(id, func() (interface{}, error) {
		rec, err := New(id, nil, r.deps)
		if err != nil {
			return nil, err
		}
		if _, err := rec.Init(ctx); err != nil {
			return nil, err
		}
		if rec.Valid() {
			r.records.Add(id, rec)
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Forget drops id from the repository.
func (r *Repository) Forget(id string) {
	r.records.Remove(id)
}

// Len returns the number of cached records.
func (r *Repository) Len() int {
	return r.records.Len()
}

// Serve implements suture.Service, dropping expired records every ttl until
// ctx is canceled.
func (r *Repository) Serve(ctx context.Context) error {
	interval := r.ttl
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := r.records.CleanupExpired(); removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Expired viewing records dropped")
			}
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (r *Repository) String() string {
	return "viewing-repository"
}
