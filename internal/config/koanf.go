// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/videomark/config.yaml",
	"/etc/videomark/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultRemoteBaseURL is the public quality/region statistics service.
const DefaultRemoteBaseURL = "https://sodium.webdino.org:8443"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       300,
		},
		Storage: StorageConfig{
			Backend:    BackendBadger,
			Path:       "/data/videomark",
			GCInterval: 10 * time.Minute,
			RedisAddr:  "",
			RedisDB:    0,
			KeyPrefix:  "viewing:",
		},
		Remote: RemoteConfig{
			BaseURL:             DefaultRemoteBaseURL,
			Timeout:             10 * time.Second,
			RateLimit:           5,
			Burst:               10,
			Offline:             false,
			AllowInsecure:       false,
			ProbeInterval:       30 * time.Second,
			ProbeAddress:        "", // Derived from BaseURL
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerOpenTimeout:  2 * time.Minute,
		},
		Records: RecordsConfig{
			CacheCapacity: 1000,
			CacheTTL:      15 * time.Minute,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// REDIS_ADDR -> storage.redis_addr, REMOTE_OFFLINE -> remote.offline
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"http_host":               "server.host",
	"http_port":               "server.port",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"api_rate_limit":          "server.rate_limit",

	"storage_backend":    "storage.backend",
	"badger_path":        "storage.path",
	"badger_gc_interval": "storage.gc_interval",
	"redis_addr":         "storage.redis_addr",
	"redis_password":     "storage.redis_password",
	"redis_db":           "storage.redis_db",
	"storage_key_prefix": "storage.key_prefix",

	"remote_base_url":              "remote.base_url",
	"remote_timeout":               "remote.timeout",
	"remote_rate_limit":            "remote.rate_limit",
	"remote_burst":                 "remote.burst",
	"remote_offline":               "remote.offline",
	"remote_allow_insecure":        "remote.allow_insecure",
	"remote_probe_interval":        "remote.probe_interval",
	"remote_probe_address":         "remote.probe_address",
	"remote_breaker_min_requests":  "remote.breaker_min_requests",
	"remote_breaker_failure_ratio": "remote.breaker_failure_ratio",
	"remote_breaker_open_timeout":  "remote.breaker_open_timeout",

	"record_cache_capacity": "records.cache_capacity",
	"record_cache_ttl":      "records.cache_ttl",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - BADGER_PATH -> storage.path
//   - REMOTE_BASE_URL -> remote.base_url
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never leak into config.
	return ""
}
