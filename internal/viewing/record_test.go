// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/videomark/internal/models"
	"github.com/tomtom215/videomark/internal/storage"
)

func ms(n int64) time.Time {
	return time.UnixMilli(n)
}

func TestNew_RequiresID(t *testing.T) {
	_, err := New("", models.Attributes{models.KeySessionID: "s"}, Deps{Storage: storage.NewMemoryStore()})
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("New(\"\") error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestNew_RequiresStorage(t *testing.T) {
	_, err := New("r1", nil, Deps{})
	if !errors.Is(err, ErrNoStorage) {
		t.Errorf("New() error = %v, want ErrNoStorage", err)
	}
}

func TestNew_DoesNotTouchStorage(t *testing.T) {
	store := newCountingStorage()
	if _, err := New("r1", nil, Deps{Storage: store}); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if store.loadCount() != 0 {
		t.Errorf("loads = %d, want 0", store.loadCount())
	}
}

func TestViewingID(t *testing.T) {
	tests := []struct{ session, video string }{
		{"s1", "v1"},
		{"6f1c2b", "dQw4w9WgXcQ"},
		{"a_b", "c"},
	}
	for _, tt := range tests {
		rec, err := New("r", models.Attributes{models.KeySessionID: tt.session, models.KeyVideoID: tt.video}, Deps{Storage: storage.NewMemoryStore()})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if got, want := rec.ViewingID(), tt.session+"_"+tt.video; got != want {
			t.Errorf("ViewingID() = %q, want %q", got, want)
		}
	}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		initial   models.Attributes
		stored    models.Attributes
		wantLoads int
		wantValid bool
		wantTitle string
	}{
		{
			name:      "identifiers present skips load",
			initial:   models.Attributes{models.KeySessionID: "s1", models.KeyVideoID: "v1"},
			stored:    baseAttrs(),
			wantLoads: 0,
			wantValid: true,
			wantTitle: "",
		},
		{
			name:      "no initial state loads",
			initial:   nil,
			stored:    baseAttrs(),
			wantLoads: 1,
			wantValid: true,
			wantTitle: "Big Buck Bunny",
		},
		{
			name:      "only session id loads",
			initial:   models.Attributes{models.KeySessionID: "s1"},
			stored:    baseAttrs(),
			wantLoads: 1,
			wantValid: true,
			wantTitle: "Big Buck Bunny",
		},
		{
			name:      "nothing stored is invalid",
			initial:   nil,
			stored:    nil,
			wantLoads: 1,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newCountingStorage()
			if tt.stored != nil {
				if err := store.MemoryStore.Save(ctx, "r1", tt.stored); err != nil {
					t.Fatalf("seed error = %v", err)
				}
			}

			rec, err := New("r1", tt.initial, Deps{Storage: store})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := rec.Init(ctx)
			if err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if got != rec {
				t.Error("Init() did not return the record itself")
			}
			if store.loadCount() != tt.wantLoads {
				t.Errorf("loads = %d, want %d", store.loadCount(), tt.wantLoads)
			}
			if rec.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", rec.Valid(), tt.wantValid)
			}
			if title, _ := rec.Title(ctx); title != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}

func TestInit_StorageError(t *testing.T) {
	store := newCountingStorage()
	store.loadErr = errBoom

	rec, _ := New("r1", nil, Deps{Storage: store})
	if _, err := rec.Init(context.Background()); !errors.Is(err, errBoom) {
		t.Errorf("Init() error = %v, want wrapped errBoom", err)
	}
}

func TestCachedAccessors(t *testing.T) {
	ctx := context.Background()
	attrs := baseAttrs()
	attrs[models.KeyThumbnail] = "https://i.ytimg.com/vi/v1/default.jpg"
	attrs[models.KeyTransferSize] = float64(123456)

	rec := newStoredRecord(t, "r1", attrs, Deps{Storage: storage.NewMemoryStore()})

	if v, err := rec.Thumbnail(ctx); err != nil || v != "https://i.ytimg.com/vi/v1/default.jpg" {
		t.Errorf("Thumbnail() = %q, %v", v, err)
	}
	if v, err := rec.Location(ctx); err != nil || v != "https://www.youtube.com/watch?v=v1" {
		t.Errorf("Location() = %q, %v", v, err)
	}
	if v, err := rec.TransferSize(ctx); err != nil || v != 123456 {
		t.Errorf("TransferSize() = %v, %v", v, err)
	}
	if v, err := rec.StartTime(ctx); err != nil || !v.Equal(ms(1000)) {
		t.Errorf("StartTime() = %v, %v; want %v", v, err, ms(1000))
	}
}

func TestStartTime_Coercion(t *testing.T) {
	want := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value interface{}
	}{
		{"epoch millis number", float64(want.UnixMilli())},
		{"epoch millis int64", want.UnixMilli()},
		{"numeric string", "1588334400000"},
		{"rfc3339 string", "2020-05-01T12:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := New("r", models.Attributes{models.KeyStartTime: tt.value}, Deps{Storage: storage.NewMemoryStore()})
			got, _ := rec.StartTime(context.Background())
			if !got.Equal(want) {
				t.Errorf("StartTime() = %v, want %v", got, want)
			}
		})
	}
}

func TestEndTime(t *testing.T) {
	tests := []struct {
		name  string
		attrs models.Attributes
		want  time.Time
	}{
		{
			name: "log wins when end_time not after start_time",
			attrs: models.Attributes{
				models.KeyStartTime: float64(1000),
				models.KeyEndTime:   float64(500),
				models.KeyLog: []interface{}{
					map[string]interface{}{"date": float64(2000), "quality": map[string]interface{}{"bitrate": float64(1)}},
				},
			},
			want: ms(2000),
		},
		{
			name: "end_time after start_time wins",
			attrs: models.Attributes{
				models.KeyStartTime: float64(1000),
				models.KeyEndTime:   float64(1500),
				models.KeyLog:       []interface{}{},
			},
			want: ms(1500),
		},
		{
			name: "falls back to start_time",
			attrs: models.Attributes{
				models.KeyStartTime: float64(1000),
				models.KeyEndTime:   float64(500),
				models.KeyLog:       []interface{}{},
			},
			want: ms(1000),
		},
		{
			name: "equal end_time uses last log entry",
			attrs: models.Attributes{
				models.KeyStartTime: float64(1000),
				models.KeyEndTime:   float64(1000),
				models.KeyLog: []interface{}{
					map[string]interface{}{"date": float64(1100)},
					map[string]interface{}{"date": float64(1700)},
				},
			},
			want: ms(1700),
		},
		{
			name:  "missing log falls back to start_time",
			attrs: models.Attributes{models.KeyStartTime: float64(1000)},
			want:  ms(1000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := New("r", tt.attrs, Deps{Storage: storage.NewMemoryStore()})
			got, err := rec.EndTime(context.Background())
			if err != nil {
				t.Fatalf("EndTime() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("EndTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuality_LastMatchWins(t *testing.T) {
	rec, _ := New("r", models.Attributes{
		models.KeyLog: []interface{}{
			map[string]interface{}{"date": float64(1), "quality": map[string]interface{}{"bitrate": float64(1)}},
			map[string]interface{}{"date": float64(2), "quality": map[string]interface{}{"bitrate": float64(2)}},
			map[string]interface{}{"date": float64(3), "event": "pause"},
		},
	}, Deps{Storage: storage.NewMemoryStore()})

	q, err := rec.Quality(context.Background())
	if err != nil {
		t.Fatalf("Quality() error = %v", err)
	}
	if !q.Date.Equal(ms(2)) {
		t.Errorf("Quality().Date = %v, want %v", q.Date, ms(2))
	}
	if bitrate, ok := q.Float("bitrate"); !ok || bitrate != 2 {
		t.Errorf("Quality() bitrate = %v, %v; want 2", bitrate, ok)
	}
}

func TestQuality_None(t *testing.T) {
	rec, _ := New("r", models.Attributes{
		models.KeyLog: []interface{}{map[string]interface{}{"date": float64(1)}},
	}, Deps{Storage: storage.NewMemoryStore()})

	q, err := rec.Quality(context.Background())
	if err != nil {
		t.Fatalf("Quality() error = %v", err)
	}
	if q.Measured() {
		t.Errorf("Quality().Measured() = true, want false: %+v", q)
	}
	if len(q.Fields) != 0 {
		t.Errorf("Quality().Fields = %v, want none", q.Fields)
	}
}

func TestQuality_DoesNotAliasLog(t *testing.T) {
	rec, _ := New("r", models.Attributes{
		models.KeyLog: []interface{}{
			map[string]interface{}{"date": float64(1), "quality": map[string]interface{}{"bitrate": float64(1)}},
		},
	}, Deps{Storage: storage.NewMemoryStore()})

	q, _ := rec.Quality(context.Background())
	q.Fields["bitrate"] = float64(99)

	again, _ := rec.Quality(context.Background())
	if bitrate, _ := again.Float("bitrate"); bitrate != 1 {
		t.Errorf("bitrate after caller mutation = %v, want 1", bitrate)
	}
}

func TestSave_ReturnsExactlyAttributes(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	rec := newStoredRecord(t, "r1", baseAttrs(), Deps{Storage: storage.NewMemoryStore(), Remote: remote})

	attrs := models.Attributes{models.KeyQoE: 4.2}
	got, err := rec.Save(ctx, attrs)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !reflect.DeepEqual(got, models.Attributes{models.KeyQoE: 4.2}) {
		t.Errorf("Save() = %v, want exactly {qoe: 4.2}", got)
	}

	qoe, ok, err := rec.QoE(ctx)
	if err != nil || !ok || qoe != 4.2 {
		t.Errorf("QoE() = %v, %v, %v; want 4.2, true, nil", qoe, ok, err)
	}
	if calls, _ := remote.calls(); calls != 0 {
		t.Errorf("remote QoE calls = %d, want 0", calls)
	}
}

func TestSave_ReloadsBeforeMerge(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	rec := newStoredRecord(t, "r1", baseAttrs(), Deps{Storage: store})

	// Another writer appends to the stored record after this one loaded it.
	external := baseAttrs()
	external[models.KeyEndTime] = float64(9000)
	if err := store.Save(ctx, "r1", external); err != nil {
		t.Fatalf("external Save() error = %v", err)
	}

	if _, err := rec.Save(ctx, models.Attributes{models.KeyQoE: 3.0}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	stored, _ := store.Load(ctx, "r1")
	if end, _ := stored.Float(models.KeyEndTime); end != 9000 {
		t.Errorf("stored end_time = %v, want 9000 from the other writer", end)
	}
	if qoe, _ := stored.Float(models.KeyQoE); qoe != 3.0 {
		t.Errorf("stored qoe = %v, want 3", qoe)
	}

	// The in-memory snapshot only gains the saved keys.
	if rec.Snapshot().Has(models.KeyEndTime) {
		t.Error("snapshot picked up keys outside the saved attributes")
	}
}

func TestSave_MissingStoredRecord(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	rec, _ := New("fresh", nil, Deps{Storage: store})

	if _, err := rec.Save(ctx, models.Attributes{models.KeyTitle: "new"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	stored, _ := store.Load(ctx, "fresh")
	if title, _ := stored.Text(models.KeyTitle); title != "new" {
		t.Errorf("stored title = %q, want new", title)
	}
	if !rec.Valid() {
		t.Error("Valid() = false after saving attributes")
	}
}

func TestSave_StorageErrors(t *testing.T) {
	tests := []struct {
		name    string
		loadErr error
		saveErr error
	}{
		{"reload fails", errBoom, nil},
		{"write fails", nil, errBoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStorage()
			rec, _ := New("r1", baseAttrs(), Deps{Storage: store})
			store.loadErr = tt.loadErr
			store.saveErr = tt.saveErr

			_, err := rec.Save(context.Background(), models.Attributes{models.KeyQoE: 1.0})
			if !errors.Is(err, errBoom) {
				t.Errorf("Save() error = %v, want wrapped errBoom", err)
			}
			if rec.Snapshot().Has(models.KeyQoE) {
				t.Error("snapshot updated despite failed save")
			}
		})
	}
}

func TestSave_IdentifiersAreImmutable(t *testing.T) {
	rec, _ := New("r1", baseAttrs(), Deps{Storage: storage.NewMemoryStore()})

	_, err := rec.Save(context.Background(), models.Attributes{models.KeySessionID: "other"})
	if !errors.Is(err, ErrIdentityChange) {
		t.Errorf("Save() error = %v, want ErrIdentityChange", err)
	}
	if rec.SessionID() != "s1" {
		t.Errorf("SessionID() = %q, want s1", rec.SessionID())
	}

	// Re-saving the same value is allowed.
	if _, err := rec.Save(context.Background(), models.Attributes{models.KeySessionID: "s1"}); err != nil {
		t.Errorf("Save() with unchanged session_id error = %v", err)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	initial := baseAttrs()
	rec, _ := New("r1", initial, Deps{Storage: storage.NewMemoryStore()})

	initial[models.KeyTitle] = "mutated by caller"
	snap := rec.Snapshot()
	snap[models.KeyTitle] = "mutated snapshot"

	if title, _ := rec.Title(context.Background()); title != "Big Buck Bunny" {
		t.Errorf("Title() = %q, want Big Buck Bunny", title)
	}
}
