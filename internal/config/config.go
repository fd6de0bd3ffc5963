// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration is loaded by LoadWithKoanf from built-in defaults, an optional
// YAML file and environment variables, in increasing order of priority.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Server     ServerConfig     `koanf:"server"`
	Storage    StorageConfig    `koanf:"storage"`
	Remote     RemoteConfig     `koanf:"remote"`
	Records    RecordsConfig    `koanf:"records"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ServerConfig holds HTTP API server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the number of API requests allowed per client IP per minute.
	// 0 disables rate limiting.
	RateLimit int `koanf:"rate_limit" validate:"min=0"`
}

// Storage backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StorageConfig selects and configures the Storage Port adapter.
type StorageConfig struct {
	// Backend is one of badger (embedded, default), redis (shared with other
	// writers such as the measurement extension bridge) or memory (ephemeral).
	Backend string `koanf:"backend" validate:"oneof=badger redis memory"`

	// Path is the BadgerDB directory.
	Path string `koanf:"path" validate:"required_if=Backend badger"`

	// GCInterval is how often BadgerDB value log garbage collection runs.
	// 0 disables it.
	GCInterval time.Duration `koanf:"gc_interval" validate:"gte=0"`

	RedisAddr     string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"min=0,max=15"`

	// KeyPrefix namespaces viewing records inside the key-value store.
	KeyPrefix string `koanf:"key_prefix" validate:"required"`
}

// RemoteConfig configures the Remote Enrichment Port client.
type RemoteConfig struct {
	// BaseURL is the quality/region service root (fixed_qoe and stats/info live below it).
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the sustained outbound request rate per second; Burst the
	// bucket size. A RateLimit of 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	Burst     int     `koanf:"burst" validate:"min=1"`

	// Offline forces every enrichment to be skipped as if the host had no network.
	Offline bool `koanf:"offline"`

	// AllowInsecure accepts an http BaseURL. Only meant for local development.
	AllowInsecure bool `koanf:"allow_insecure"`

	// ProbeInterval controls how often connectivity is re-checked.
	ProbeInterval time.Duration `koanf:"probe_interval"`

	// ProbeAddress is the host:port dialed by the connectivity probe.
	// Derived from BaseURL when empty.
	ProbeAddress string `koanf:"probe_address"`

	// Circuit breaker: open after FailureRatio of at least MinRequests fail,
	// retry after OpenTimeout.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests" validate:"min=1"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// RecordsConfig configures the in-process repository of initialized records.
type RecordsConfig struct {
	CacheCapacity int           `koanf:"cache_capacity" validate:"min=1"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
}

// SupervisorConfig holds suture supervisor tree configuration.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gte=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gte=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Address returns the host:port the API server listens on.
func (s ServerConfig) Address() string {
	return joinHostPort(s.Host, s.Port)
}
