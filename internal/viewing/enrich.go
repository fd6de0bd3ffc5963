// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"strings"

	"github.com/tomtom215/videomark/internal/enrichment"
	"github.com/tomtom215/videomark/internal/logging"
	"github.com/tomtom215/videomark/internal/metrics"
	"github.com/tomtom215/videomark/internal/models"
)

// Field resolution sources reported to metrics.
const (
	sourceCache        = "cache"
	sourceRemote       = "remote"
	sourceOffline      = "offline"
	sourceUnmatched    = "unmatched"
	sourceFailed       = "failed"
	sourceUnidentified = "unidentified"
)

// QoE returns the fixed quality score of the viewing.
//
// ok is false while the score is unknown: the host is offline, the lookup
// failed or the service has no positive score for this viewing yet. Only
// storage failures while persisting a score are returned as errors.
func (r *Record) QoE(ctx context.Context) (qoe float64, ok bool, err error) {
	if qoe, ok := r.cachedQoE(); ok {
		metrics.RecordFieldResolution(models.KeyQoE, sourceCache)
		return qoe, true, nil
	}

	_, err, _ = r.fetches.Do(models.KeyQoE, func() (interface{}, error) {
		if _, ok := r.cachedQoE(); ok {
			return nil, nil
		}
		return nil, r.fetchQoE(ctx)
	})
	if err != nil {
		return 0, false, err
	}

	qoe, ok = r.cachedQoE()
	return qoe, ok, nil
}

func (r *Record) cachedQoE() (float64, bool) {
	qoe, ok := r.current().Float(models.KeyQoE)
	return qoe, ok && qoe > 0
}

func (r *Record) fetchQoE(ctx context.Context) error {
	sessionID, videoID := r.SessionID(), r.VideoID()
	if sessionID == "" || videoID == "" {
		metrics.RecordFieldResolution(models.KeyQoE, sourceUnidentified)
		return nil
	}
	if !r.online(ctx) {
		metrics.RecordFieldResolution(models.KeyQoE, sourceOffline)
		return nil
	}

	results, err := r.deps.Remote.FixedQoE(ctx, []models.ViewingPair{{SessionID: sessionID, VideoID: videoID}})
	if err != nil {
		r.logLookupFailure(ctx, models.KeyQoE, err)
		metrics.RecordFieldResolution(models.KeyQoE, sourceFailed)
		return nil
	}

	// Remote viewing ids may carry extra suffix segments after "<session>_<video>".
	prefix := r.ViewingID()
	for _, entry := range results {
		if !strings.HasPrefix(entry.ViewingID, prefix) {
			continue
		}
		if _, err := r.Save(ctx, models.Attributes{models.KeyQoE: entry.QoE}); err != nil {
			return err
		}
		metrics.RecordFieldResolution(models.KeyQoE, sourceRemote)
		return nil
	}

	metrics.RecordFieldResolution(models.KeyQoE, sourceUnmatched)
	return nil
}

// Region returns the region and ISP of the viewing.
//
// ok is false while the region is unknown, under the same rules as QoE.
func (r *Record) Region(ctx context.Context) (region models.Region, ok bool, err error) {
	if region, ok := r.current().Region(); ok {
		metrics.RecordFieldResolution(models.KeyRegion, sourceCache)
		return region, true, nil
	}

	_, err, _ = r.fetches.Do(models.KeyRegion, func() (interface{}, error) {
		if _, ok := r.current().Region(); ok {
			return nil, nil
		}
		return nil, r.fetchRegion(ctx)
	})
	if err != nil {
		return models.Region{}, false, err
	}

	region, ok = r.current().Region()
	return region, ok, nil
}

func (r *Record) fetchRegion(ctx context.Context) error {
	sessionID, videoID := r.SessionID(), r.VideoID()
	if sessionID == "" || videoID == "" {
		metrics.RecordFieldResolution(models.KeyRegion, sourceUnidentified)
		return nil
	}
	if !r.online(ctx) {
		metrics.RecordFieldResolution(models.KeyRegion, sourceOffline)
		return nil
	}

	results, err := r.deps.Remote.StatsInfo(ctx, videoID, sessionID)
	if err != nil {
		r.logLookupFailure(ctx, models.KeyRegion, err)
		metrics.RecordFieldResolution(models.KeyRegion, sourceFailed)
		return nil
	}

	for _, entry := range results {
		if entry.Session != sessionID || entry.Video != videoID {
			continue
		}
		region := entry.Region()
		attrs := models.Attributes{
			models.KeyRegion: map[string]interface{}{
				"country":     region.Country,
				"subdivision": region.Subdivision,
				"isp":         region.ISP,
			},
		}
		if _, err := r.Save(ctx, attrs); err != nil {
			return err
		}
		metrics.RecordFieldResolution(models.KeyRegion, sourceRemote)
		return nil
	}

	metrics.RecordFieldResolution(models.KeyRegion, sourceUnmatched)
	return nil
}

// online reports whether a remote lookup should be attempted.
func (r *Record) online(ctx context.Context) bool {
	if r.deps.Remote == nil {
		return false
	}
	if r.deps.Connectivity == nil {
		return true
	}
	return r.deps.Connectivity.Online(ctx)
}

func (r *Record) logLookupFailure(ctx context.Context, field string, err error) {
	event := logging.Ctx(ctx).Warn()
	if enrichment.IsRejected(err) {
		event = logging.Ctx(ctx).Debug()
	}
	event.Err(err).
		Str("id", r.id).
		Str("viewing_id", r.ViewingID()).
		Str("field", field).
		Msg("Remote lookup failed, leaving field unresolved")
}
