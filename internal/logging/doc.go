// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

// Package logging provides centralized zerolog-based structured logging for VideoMark.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("viewing_id", id).Msg("Region resolved")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Fixed QoE lookup failed")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Context
//
// Ctx(ctx) returns a logger carrying the correlation_id and request_id stored
// in the context, so every line logged while serving one API request or one
// enrichment round-trip can be grouped together.
//
// # slog
//
// SlogHandler routes log/slog records into zerolog. The supervisor tree uses
// it to feed sutureslog.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
