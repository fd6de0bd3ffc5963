// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the whole process because
// validator caches struct metadata per type. Field names in error messages
// come from the json or koanf struct tag, so they read the same way the user
// wrote them in a query string or config file.
//
// Example usage:
//
//	type ListViewingsRequest struct {
//	    Year  int    `json:"year" validate:"omitempty,min=1970,max=9999"`
//	    Month int    `json:"month" validate:"omitempty,min=1,max=12"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    ...
//	}
package validation
