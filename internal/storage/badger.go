// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/videomark/internal/models"
)

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db     *badger.DB
	prefix string
	owned  bool
}

// OpenBadger opens (or creates) a BadgerDB at path and returns a store that
// owns it.
func OpenBadger(path, prefix string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for viewings: %w", err)
	}

	store := NewBadgerStore(db, prefix)
	store.owned = true
	return store, nil
}

// NewBadgerStore wraps an already open database. Close does not close db.
func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	return &BadgerStore{db: db, prefix: prefix}
}

func (s *BadgerStore) key(id string) []byte {
	return []byte(s.prefix + id)
}

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context, id string) (models.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var attrs models.Attributes
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get viewing: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &attrs)
		})
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, fmt.Errorf("load viewing %s: %w", id, err)
	}

	return attrs, nil
}

// Save implements Store.
func (s *BadgerStore) Save(ctx context.Context, id string, attrs models.Attributes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if attrs == nil {
		attrs = models.Attributes{}
	}

	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshal viewing: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(id), data)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	if err != nil {
		return fmt.Errorf("save viewing %s: %w", id, err)
	}
	return nil
}

// List implements Lister. Entries that fail to decode are skipped.
func (s *BadgerStore) List(ctx context.Context) (map[string]models.Attributes, error) {
	records := make(map[string]models.Attributes)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(s.prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()

			var attrs models.Attributes
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &attrs)
			})
			if err != nil {
				continue
			}
			records[strings.TrimPrefix(string(item.Key()), s.prefix)] = attrs
		}
		return nil
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, fmt.Errorf("list viewings: %w", err)
	}

	return records, nil
}

// RunGC runs value log garbage collection until nothing is left to rewrite.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if errors.Is(err, badger.ErrDBClosed) {
			return ErrClosed
		}
		if err != nil {
			return fmt.Errorf("run badger gc: %w", err)
		}
	}
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
