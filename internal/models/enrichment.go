// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package models

// ViewingPair identifies one viewing in a batched QoE request.
type ViewingPair struct {
	SessionID string `json:"session_id"`
	VideoID   string `json:"video_id"`
}

// FixedQoERequest is the body of a fixed QoE lookup.
type FixedQoERequest struct {
	IDs []ViewingPair `json:"ids"`
}

// FixedQoE is one entry of a fixed QoE response.
//
// ViewingID is "<session>_<video>" and may carry further suffix segments,
// so it has to be matched by prefix.
type FixedQoE struct {
	ViewingID string  `json:"viewing_id"`
	QoE       float64 `json:"qoe"`
}

// StatsInfoRequest is the body of a region/ISP lookup.
type StatsInfoRequest struct {
	Video   string `json:"video"`
	Session string `json:"session"`
}

// StatsInfo is one entry of a region/ISP lookup response.
type StatsInfo struct {
	Session     string `json:"session"`
	Video       string `json:"video"`
	Country     string `json:"country"`
	Subdivision string `json:"subdivision"`
	ISP         string `json:"isp"`
}

// Region returns the region part of the entry.
func (s StatsInfo) Region() Region {
	return Region{
		Country:     s.Country,
		Subdivision: s.Subdivision,
		ISP:         s.ISP,
	}
}
