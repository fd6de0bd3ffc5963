// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/videomark/internal/models"
	"github.com/tomtom215/videomark/internal/storage"
)

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()
	store := newCountingStorage()
	if err := store.MemoryStore.Save(ctx, "r1", baseAttrs()); err != nil {
		t.Fatalf("seed error = %v", err)
	}
	repo := NewRepository(Deps{Storage: store}, 10, time.Minute)

	first, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !first.Valid() || first.ViewingID() != "s1_v1" {
		t.Fatalf("Get() = valid %v, viewing id %q", first.Valid(), first.ViewingID())
	}

	second, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("second Get() error = %v", err)
	}
	if second != first {
		t.Error("second Get() returned a different record")
	}
	if store.loadCount() != 2 {
		t.Errorf("loads = %d, want 2", store.loadCount())
	}
	if repo.Len() != 1 {
		t.Errorf("Len() = %d, want 1", repo.Len())
	}

	repo.Forget("r1")
	if _, err := repo.Get(ctx, "r1"); err != nil {
		t.Fatalf("Get() after Forget error = %v", err)
	}
	if store.loadCount() != 3 {
		t.Errorf("loads after Forget = %d, want 3", store.loadCount())
	}
}

func TestRepository_GetSeesLaterWrites(t *testing.T) {
	ctx := context.Background()
	store := newCountingStorage()
	attrs := baseAttrs()
	attrs[models.KeyLog] = []interface{}{map[string]interface{}{"date": float64(2000)}}
	if err := store.MemoryStore.Save(ctx, "r1", attrs); err != nil {
		t.Fatalf("seed error = %v", err)
	}
	repo := NewRepository(Deps{Storage: store}, 10, time.Minute)

	rec, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	end, _ := rec.EndTime(ctx)
	if end.UnixMilli() != 2000 {
		t.Fatalf("EndTime() = %d, want 2000", end.UnixMilli())
	}
	if _, err := rec.Save(ctx, models.Attributes{models.KeyQoE: 4.2}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The extension appends to the log and rewrites the record without qoe.
	later := baseAttrs()
	later[models.KeyLog] = []interface{}{
		map[string]interface{}{"date": float64(2000)},
		map[string]interface{}{"date": float64(9000), "quality": map[string]interface{}{"bitrate": float64(7)}},
	}
	if err := store.MemoryStore.Save(ctx, "r1", later); err != nil {
		t.Fatalf("rewrite error = %v", err)
	}

	again, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("second Get() error = %v", err)
	}
	end, _ = again.EndTime(ctx)
	if end.UnixMilli() != 9000 {
		t.Errorf("EndTime() after rewrite = %d, want 9000", end.UnixMilli())
	}
	quality, _ := again.Quality(ctx)
	if bitrate, ok := quality.Float("bitrate"); !ok || bitrate != 7 {
		t.Errorf("Quality() bitrate = %v, %v, want 7", bitrate, ok)
	}
	if qoe, ok := again.Snapshot().Float(models.KeyQoE); !ok || qoe != 4.2 {
		t.Errorf("qoe after rewrite = %v, %v, want 4.2 kept", qoe, ok)
	}
}

func TestRepository_GetDropsDeletedRecords(t *testing.T) {
	ctx := context.Background()
	store := newCountingStorage()
	if err := store.MemoryStore.Save(ctx, "r1", baseAttrs()); err != nil {
		t.Fatalf("seed error = %v", err)
	}
	repo := NewRepository(Deps{Storage: store}, 10, time.Minute)
	if _, err := repo.Get(ctx, "r1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	store.MemoryStore = storage.NewMemoryStore()
	rec, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Valid() {
		t.Error("Get() of a deleted record returned a valid record")
	}
	if repo.Len() != 0 {
		t.Errorf("Len() = %d, want 0", repo.Len())
	}
}

func TestRepository_InvalidRecordsAreNotCached(t *testing.T) {
	ctx := context.Background()
	store := newCountingStorage()
	repo := NewRepository(Deps{Storage: store}, 10, time.Minute)

	rec, err := repo.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Valid() {
		t.Error("Get() of a missing id returned a valid record")
	}
	if repo.Len() != 0 {
		t.Errorf("Len() = %d, want 0", repo.Len())
	}

	// Once written, the record becomes visible.
	if err := store.MemoryStore.Save(ctx, "missing", models.Attributes{models.KeySessionID: "s", models.KeyVideoID: "v"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rec, _ = repo.Get(ctx, "missing")
	if !rec.Valid() {
		t.Error("Get() after write returned an invalid record")
	}
}

func TestRepository_Errors(t *testing.T) {
	ctx := context.Background()
	store := newCountingStorage()
	repo := NewRepository(Deps{Storage: store}, 10, time.Minute)

	if _, err := repo.Get(ctx, ""); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("Get(\"\") error = %v, want ErrInvalidIdentifier", err)
	}

	store.loadErr = errBoom
	if _, err := repo.Get(ctx, "r1"); !errors.Is(err, errBoom) {
		t.Errorf("Get() error = %v, want errBoom", err)
	}
}

func TestRepository_ServeStopsOnCancel(t *testing.T) {
	repo := NewRepository(Deps{Storage: newCountingStorage()}, 10, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- repo.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
	if repo.String() != "viewing-repository" {
		t.Errorf("String() = %q", repo.String())
	}
}
