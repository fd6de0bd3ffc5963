// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"
	"time"

	"github.com/tomtom215/videomark/internal/models"
)

// EndTime returns when playback ended.
//
// A stored end_time later than start_time wins. Otherwise the date of the
// last log entry is used, and with an empty log the viewing is taken to have
// lasted zero time, so start_time is returned.
func (r *Record) EndTime(_ context.Context) (time.Time, error) {
	snap := r.current()

	start, hasStart := snap.Time(models.KeyStartTime)
	if end, ok := snap.Time(models.KeyEndTime); ok && hasStart && end.After(start) {
		return end, nil
	}

	if log := snap.Log(); len(log) > 0 {
		return log[len(log)-1].Date(), nil
	}

	return start, nil
}

// Quality returns the last quality measurement in the log. When the log has
// none the snapshot has a zero Date and no fields.
func (r *Record) Quality(_ context.Context) (models.QualitySnapshot, error) {
	log := r.current().Log()

	for i := len(log) - 1; i >= 0; i-- {
		quality, ok := log[i].Quality()
		if !ok {
			continue
		}
		fields := models.Attributes(quality).Clone()
		return models.QualitySnapshot{Date: log[i].Date(), Fields: fields}, nil
	}

	return models.QualitySnapshot{}, nil
}
