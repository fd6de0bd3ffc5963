// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

/*
Package config provides centralized configuration management for VideoMark.

Configuration is layered with Koanf:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/videomark/config.yaml
 3. Environment variables (highest priority)

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

HTTP API:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3857)
  - SERVER_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
  - API_RATE_LIMIT: Requests per minute per client IP, 0 disables (default: 300)

Storage:
  - STORAGE_BACKEND: badger, redis or memory (default: badger)
  - BADGER_PATH: BadgerDB directory (default: /data/videomark)
  - BADGER_GC_INTERVAL: Value log GC interval, 0 disables (default: 10m)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: Redis connection
  - STORAGE_KEY_PREFIX: Key namespace (default: viewing:)

Remote enrichment:
  - REMOTE_BASE_URL: Statistics service root (default: https://sodium.webdino.org:8443)
  - REMOTE_TIMEOUT: Per-request timeout (default: 10s)
  - REMOTE_RATE_LIMIT, REMOTE_BURST: Outbound request rate limiting
  - REMOTE_OFFLINE: Skip all remote lookups (default: false)
  - REMOTE_ALLOW_INSECURE: Accept an http REMOTE_BASE_URL (default: false)
  - REMOTE_PROBE_INTERVAL, REMOTE_PROBE_ADDRESS: Connectivity probing
  - REMOTE_BREAKER_MIN_REQUESTS, REMOTE_BREAKER_FAILURE_RATIO,
    REMOTE_BREAKER_OPEN_TIMEOUT: Circuit breaker tuning

Records and supervision:
  - RECORD_CACHE_CAPACITY, RECORD_CACHE_TTL: Initialized record cache
  - SUPERVISOR_FAILURE_THRESHOLD, SUPERVISOR_FAILURE_DECAY,
    SUPERVISOR_FAILURE_BACKOFF, SUPERVISOR_SHUTDOWN_TIMEOUT

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
