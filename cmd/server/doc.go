// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package main is the entry point for the VideoMark viewing server.

The server keeps the viewing records measured by the VideoMark browser
extension, enriches them with the fixed QoE score and the viewer's region
from the statistics service, and serves them over a small JSON API.

# Application Architecture

Components are created in order and then handed to a Suture v4 tree:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Storage: BadgerDB, Redis or in-memory Storage Port
 4. Enrichment: HTTP client behind a circuit breaker, plus a connectivity probe
 5. Viewing repository and catalog
 6. HTTP API (chi)

	RootSupervisor ("videomark")
	├── DataSupervisor ("data-layer")
	│   ├── viewing-repository
	│   └── storage-gc (badger only)
	├── NetworkSupervisor ("network-layer")
	│   └── connectivity-probe
	└── APISupervisor ("api-layer")
	    └── http-server

# Signals

SIGINT and SIGTERM cancel the root context; every layer is then given
SUPERVISOR_SHUTDOWN_TIMEOUT to stop before the process exits.
*/
package main
