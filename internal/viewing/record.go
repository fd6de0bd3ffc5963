// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/videomark/internal/enrichment"
	"github.com/tomtom215/videomark/internal/models"
)

var (
	// ErrInvalidIdentifier is returned when a record is created without an id.
	ErrInvalidIdentifier = errors.New("viewing: invalid identifier")

	// ErrNoStorage is returned when a record is created without a Storage.
	ErrNoStorage = errors.New("viewing: storage is required")

	// ErrIdentityChange is returned by Save when attributes would change an
	// already populated session_id or video_id.
	ErrIdentityChange = errors.New("viewing: session_id and video_id are immutable")
)

// Storage is the part of the Storage Port a record uses.
// Load returns nil when nothing is stored under id.
type Storage interface {
	Load(ctx context.Context, id string) (models.Attributes, error)
	Save(ctx context.Context, id string, attrs models.Attributes) error
}

// Deps are the ports a record talks to.
//
// Remote may be nil, in which case enrichable fields are only ever read from
// the snapshot. A nil Connectivity counts as always online.
type Deps struct {
	Storage      Storage
	Remote       enrichment.Client
	Connectivity enrichment.Connectivity
}

// Record is one viewing. It is safe for concurrent use.
type Record struct {
	id   string
	deps Deps

	mu    sync.RWMutex
	state models.Attributes

	// saveMu serializes the reload-merge-write sequence of Save.
	saveMu sync.Mutex

	fetches singleflight.Group
}

// New creates a record for id with an optional initial state. It never
// touches storage or network.
func New(id string, initial models.Attributes, deps Deps) (*Record, error) {
	if id == "" {
		return nil, ErrInvalidIdentifier
	}
	if deps.Storage == nil {
		return nil, ErrNoStorage
	}
	return &Record{
		id:    id,
		deps:  deps,
		state: initial.Clone(),
	}, nil
}

// Init loads the stored state unless both session_id and video_id are
// already known. The loaded state replaces the snapshot; when nothing is
// stored the record becomes invalid. Init returns the record for chaining.
func (r *Record) Init(ctx context.Context) (*Record, error) {
	snap := r.current()
	if snap.Has(models.KeySessionID) && snap.Has(models.KeyVideoID) {
		return r, nil
	}

	loaded, err := r.deps.Storage.Load(ctx, r.id)
	if err != nil {
		return r, fmt.Errorf("load viewing %s: %w", r.id, err)
	}

	r.mu.Lock()
	r.state = loaded
	r.mu.Unlock()

	return r, nil
}

// Refresh reloads the stored state and swaps it in. Resolved qoe and region
// values missing from the stored copy are kept. When nothing is stored any
// more the record becomes invalid.
func (r *Record) Refresh(ctx context.Context) error {
	loaded, err := r.deps.Storage.Load(ctx, r.id)
	if err != nil {
		return fmt.Errorf("refresh viewing %s: %w", r.id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(loaded) > 0 {
		for _, key := range []string{models.KeyQoE, models.KeyRegion} {
			if v, ok := r.state[key]; ok && !loaded.Has(key) {
				loaded[key] = v
			}
		}
	}
	r.state = loaded
	return nil
}

// current returns the snapshot. Callers must not modify it.
func (r *Record) current() models.Attributes {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// ID returns the storage key of the record.
func (r *Record) ID() string {
	return r.id
}

// Valid reports whether the record has any state.
func (r *Record) Valid() bool {
	return len(r.current()) > 0
}

// Snapshot returns a deep copy of the current state, or nil when invalid.
func (r *Record) Snapshot() models.Attributes {
	return r.current().Clone()
}

// SessionID returns the playback session id, or "" when unknown.
func (r *Record) SessionID() string {
	s, _ := r.current().Text(models.KeySessionID)
	return s
}

// VideoID returns the video id, or "" when unknown.
func (r *Record) VideoID() string {
	s, _ := r.current().Text(models.KeyVideoID)
	return s
}

// ViewingID returns "<session_id>_<video_id>", the key the statistics
// service uses for a viewing.
func (r *Record) ViewingID() string {
	return r.SessionID() + "_" + r.VideoID()
}

// Title returns the video title.
func (r *Record) Title(_ context.Context) (string, error) {
	s, _ := r.current().Text(models.KeyTitle)
	return s, nil
}

// Thumbnail returns the thumbnail URL.
func (r *Record) Thumbnail(_ context.Context) (string, error) {
	s, _ := r.current().Text(models.KeyThumbnail)
	return s, nil
}

// Location returns the page URL the video was played on.
func (r *Record) Location(_ context.Context) (string, error) {
	s, _ := r.current().Text(models.KeyLocation)
	return s, nil
}

// TransferSize returns the number of bytes transferred during playback.
func (r *Record) TransferSize(_ context.Context) (float64, error) {
	f, _ := r.current().Float(models.KeyTransferSize)
	return f, nil
}

// StartTime returns when playback started, or the zero time when unknown.
func (r *Record) StartTime(_ context.Context) (time.Time, error) {
	t, _ := r.current().Time(models.KeyStartTime)
	return t, nil
}

// Save persists attrs and returns exactly attrs.
//
// The stored record is reloaded first and attrs merged into that fresh copy,
// so keys written by other writers since this record was loaded survive.
// Keys outside attrs can still be lost if another writer saves between the
// reload and the write.
func (r *Record) Save(ctx context.Context, attrs models.Attributes) (models.Attributes, error) {
	if err := r.checkIdentity(attrs); err != nil {
		return nil, err
	}

	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	fresh, err := r.deps.Storage.Load(ctx, r.id)
	if err != nil {
		return nil, fmt.Errorf("reload viewing %s: %w", r.id, err)
	}

	if err := r.deps.Storage.Save(ctx, r.id, fresh.Merge(attrs)); err != nil {
		return nil, fmt.Errorf("save viewing %s: %w", r.id, err)
	}

	r.mu.Lock()
	r.state = r.state.Merge(attrs)
	r.mu.Unlock()

	return attrs, nil
}

func (r *Record) checkIdentity(attrs models.Attributes) error {
	snap := r.current()
	for _, key := range []string{models.KeySessionID, models.KeyVideoID} {
		current, ok := snap.Text(key)
		if !ok || current == "" {
			continue
		}
		if next, present := attrs[key]; present && next != current {
			return fmt.Errorf("%w: %s %q -> %v", ErrIdentityChange, key, current, next)
		}
	}
	return nil
}
