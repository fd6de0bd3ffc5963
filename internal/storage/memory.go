// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package storage

import (
	"context"
	"sync"

	"github.com/tomtom215/videomark/internal/models"
)

// MemoryStore keeps records in process memory.
// Records are deep-copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.Attributes
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.Attributes)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, id string) (models.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.records[id].Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, id string, attrs models.Attributes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if attrs == nil {
		attrs = models.Attributes{}
	}
	s.records[id] = attrs.Clone()
	return nil
}

// List implements Lister.
func (s *MemoryStore) List(ctx context.Context) (map[string]models.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string]models.Attributes, len(s.records))
	for id, attrs := range s.records {
		out[id] = attrs.Clone()
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
