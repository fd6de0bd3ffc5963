// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package supervisor runs the long-lived services of the viewing server under
a suture v4 supervisor tree.

# Overview

Services are grouped into three layers so a failure in one does not take
the others down:

	RootSupervisor ("videomark")
	├── DataSupervisor ("data-layer")
	│   ├── viewing-repository (expired record eviction)
	│   └── storage-gc (BadgerDB value log GC, badger backend only)
	├── NetworkSupervisor ("network-layer")
	│   └── connectivity-probe (unless REMOTE_OFFLINE)
	└── APISupervisor ("api-layer")
	    └── http-server

A crashing connectivity probe is restarted with backoff while the API keeps
serving; enrichable fields simply stay unresolved until the probe recovers.

# Logging

Supervisor events (service panics, restarts, backoff) are reported through
sutureslog into the same zerolog stream as the rest of the process:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)

# Shutdown

Canceling the context passed to Serve stops every layer. Services that do
not return within ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
