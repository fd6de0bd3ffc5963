// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package services

import (
	"context"
	"time"

	"github.com/tomtom215/videomark/internal/logging"
	"github.com/tomtom215/videomark/internal/storage"
)

// DefaultGCDiscardRatio is the fraction of a value log file that must be
// garbage before the file is rewritten.
const DefaultGCDiscardRatio = 0.5

// StorageGCService periodically reclaims storage space.
type StorageGCService struct {
	gc       storage.GarbageCollector
	interval time.Duration
	ratio    float64
}

// NewStorageGCService creates a GC service running every interval.
func NewStorageGCService(gc storage.GarbageCollector, interval time.Duration) *StorageGCService {
	return &StorageGCService{gc: gc, interval: interval, ratio: DefaultGCDiscardRatio}
}

// Serve implements suture.Service.
func (s *StorageGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(s.ratio); err != nil {
				logging.Warn().Err(err).Msg("Storage garbage collection failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Storage garbage collection finished")
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (s *StorageGCService) String() string {
	return "storage-gc"
}
