// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package services provides suture.Service wrappers for components whose own
lifecycle does not match suture's Serve(ctx) pattern.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server (ListenAndServe/Shutdown) with graceful shutdown
  - http.ErrServerClosed is treated as a clean stop

Storage GC (StorageGCService):
  - Runs value log garbage collection of the BadgerDB backend on an interval
  - GC errors are logged and do not restart the service

The viewing repository and the connectivity probe implement suture.Service
directly and need no wrapper.
*/
package services
