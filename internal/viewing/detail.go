// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"context"

	"github.com/tomtom215/videomark/internal/models"
)

// Detail resolves every attribute of the record, including the remotely
// enriched ones. Unresolved QoE and Region are left nil.
func (r *Record) Detail(ctx context.Context) (models.ViewingDetail, error) {
	detail := models.ViewingDetail{
		ID:        r.id,
		ViewingID: r.ViewingID(),
	}

	var err error
	if detail.Title, err = r.Title(ctx); err != nil {
		return detail, err
	}
	if detail.Thumbnail, err = r.Thumbnail(ctx); err != nil {
		return detail, err
	}
	if detail.Location, err = r.Location(ctx); err != nil {
		return detail, err
	}
	if detail.TransferSize, err = r.TransferSize(ctx); err != nil {
		return detail, err
	}
	if detail.StartTime, err = r.StartTime(ctx); err != nil {
		return detail, err
	}
	if detail.EndTime, err = r.EndTime(ctx); err != nil {
		return detail, err
	}
	if detail.Quality, err = r.Quality(ctx); err != nil {
		return detail, err
	}

	qoe, ok, err := r.QoE(ctx)
	if err != nil {
		return detail, err
	}
	if ok {
		detail.QoE = &qoe
	}

	region, ok, err := r.Region(ctx)
	if err != nil {
		return detail, err
	}
	if ok {
		detail.Region = &region
	}

	return detail, nil
}
