// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/videomark/internal/enrichment"
	"github.com/tomtom215/videomark/internal/models"
	"github.com/tomtom215/videomark/internal/storage"
)

// fakeRemote is an enrichment.Client with canned answers and call counting.
type fakeRemote struct {
	mu         sync.Mutex
	qoeCalls   int
	statsCalls int
	qoe        []models.FixedQoE
	stats      []models.StatsInfo
	err        error

	// block, when set, holds every call until it is closed.
	block chan struct{}
}

var _ enrichment.Client = (*fakeRemote)(nil)

func (f *fakeRemote) FixedQoE(ctx context.Context, ids []models.ViewingPair) ([]models.FixedQoE, error) {
	f.mu.Lock()
	f.qoeCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.qoe, f.err
}

func (f *fakeRemote) StatsInfo(ctx context.Context, videoID, sessionID string) ([]models.StatsInfo, error) {
	f.mu.Lock()
	f.statsCalls++
	f.mu.Unlock()
	return f.stats, f.err
}

func (f *fakeRemote) calls() (qoe, stats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qoeCalls, f.statsCalls
}

// countingStorage wraps a MemoryStore, counting loads and optionally failing.
type countingStorage struct {
	*storage.MemoryStore
	mu      sync.Mutex
	loads   int
	saves   int
	saveErr error
	loadErr error
}

func newCountingStorage() *countingStorage {
	return &countingStorage{MemoryStore: storage.NewMemoryStore()}
}

func (s *countingStorage) Load(ctx context.Context, id string) (models.Attributes, error) {
	s.mu.Lock()
	s.loads++
	err := s.loadErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.MemoryStore.Load(ctx, id)
}

func (s *countingStorage) Save(ctx context.Context, id string, attrs models.Attributes) error {
	s.mu.Lock()
	s.saves++
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, id, attrs)
}

func (s *countingStorage) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

var errBoom = errors.New("boom")

// baseAttrs returns a stored viewing of session s1 and video v1.
func baseAttrs() models.Attributes {
	return models.Attributes{
		models.KeySessionID: "s1",
		models.KeyVideoID:   "v1",
		models.KeyTitle:     "Big Buck Bunny",
		models.KeyLocation:  "https://www.youtube.com/watch?v=v1",
		models.KeyStartTime: float64(1000),
	}
}

// newStoredRecord stores attrs under id and returns an initialized record.
func newStoredRecord(t *testing.T, id string, attrs models.Attributes, deps Deps) *Record {
	t.Helper()
	ctx := context.Background()
	if err := deps.Storage.Save(ctx, id, attrs); err != nil {
		t.Fatalf("seed Save() error = %v", err)
	}
	rec, err := New(id, nil, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := rec.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return rec
}
