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
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/videomark/internal/models"
)

// scanBatch is the COUNT hint passed to SCAN when listing records.
const scanBatch = 256

// RedisStore implements Store on top of Redis string keys.
type RedisStore struct {
	client *redis.Client
	prefix string
	owned  bool
}

// OpenRedis connects to Redis and verifies the connection with PING.
func OpenRedis(addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	store := NewRedisStore(client, prefix)
	store.owned = true
	return store, nil
}

// NewRedisStore wraps an existing client. Close does not close client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id string) (models.Attributes, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, s.wrap(fmt.Sprintf("load viewing %s", id), err)
	}

	var attrs models.Attributes
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("decode viewing %s: %w", id, err)
	}
	return attrs, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, id string, attrs models.Attributes) error {
	if attrs == nil {
		attrs = models.Attributes{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("marshal viewing: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+id, data, 0).Err(); err != nil {
		return s.wrap(fmt.Sprintf("save viewing %s", id), err)
	}
	return nil
}

// List implements Lister. Keys are enumerated with SCAN and fetched with
// MGET; values that fail to decode are skipped.
func (s *RedisStore) List(ctx context.Context) (map[string]models.Attributes, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, s.wrap("list viewings", err)
	}

	records := make(map[string]models.Attributes, len(keys))
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		batch := keys[start:end]

		values, err := s.client.MGet(ctx, batch...).Result()
		if err != nil {
			return nil, s.wrap("list viewings", err)
		}
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var attrs models.Attributes
			if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
				continue
			}
			records[strings.TrimPrefix(batch[i], s.prefix)] = attrs
		}
	}
	return records, nil
}

func (s *RedisStore) wrap(op string, err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Close closes the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
