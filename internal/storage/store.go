// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/videomark/internal/config"
	"github.com/tomtom215/videomark/internal/metrics"
	"github.com/tomtom215/videomark/internal/models"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("storage: store closed")

// Store is the Storage Port: a key-value store of viewing records.
type Store interface {
	// Load returns the record stored under id, or nil when there is none.
	Load(ctx context.Context, id string) (models.Attributes, error)

	// Save replaces the record stored under id.
	Save(ctx context.Context, id string, attrs models.Attributes) error

	Close() error
}

// Lister is implemented by stores that can enumerate every record.
type Lister interface {
	List(ctx context.Context) (map[string]models.Attributes, error)
}

// GarbageCollector is implemented by stores that reclaim disk space on demand.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// Open creates the store selected by cfg.Backend.
func Open(cfg config.StorageConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case config.BackendBadger:
		store, err = OpenBadger(cfg.Path, cfg.KeyPrefix)
	case config.BackendRedis:
		store, err = OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix)
	case config.BackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(store, cfg.Backend), nil
}

// InstrumentedStore records metrics for every operation of the wrapped store.
type InstrumentedStore struct {
	next    Store
	backend string
}

// Instrument wraps store so that its operations are exported as metrics
// labelled with backend.
func Instrument(store Store, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: store, backend: backend}
}

// Load implements Store.
func (s *InstrumentedStore) Load(ctx context.Context, id string) (models.Attributes, error) {
	start := time.Now()
	attrs, err := s.next.Load(ctx, id)
	metrics.RecordStorageOperation(s.backend, "load", time.Since(start), attrs != nil, err)
	return attrs, err
}

// Save implements Store.
func (s *InstrumentedStore) Save(ctx context.Context, id string, attrs models.Attributes) error {
	start := time.Now()
	err := s.next.Save(ctx, id, attrs)
	metrics.RecordStorageOperation(s.backend, "save", time.Since(start), true, err)
	return err
}

// List implements Lister when the wrapped store does.
func (s *InstrumentedStore) List(ctx context.Context) (map[string]models.Attributes, error) {
	lister, ok := s.next.(Lister)
	if !ok {
		return nil, fmt.Errorf("storage backend %s cannot list records", s.backend)
	}
	start := time.Now()
	records, err := lister.List(ctx)
	metrics.RecordStorageOperation(s.backend, "list", time.Since(start), true, err)
	return records, err
}

// RunGC implements GarbageCollector. It does nothing when the wrapped store
// has no garbage to collect.
func (s *InstrumentedStore) RunGC(discardRatio float64) error {
	gc, ok := s.next.(GarbageCollector)
	if !ok {
		return nil
	}
	start := time.Now()
	err := gc.RunGC(discardRatio)
	metrics.RecordStorageOperation(s.backend, "gc", time.Since(start), true, err)
	return err
}

// Close implements Store.
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
