// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package config

import (
	"fmt"

	"github.com/tomtom215/videomark/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Struct tags cover single fields; the checks below cover the rest.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateRemote(); err != nil {
		return err
	}

	return c.validateDurations()
}

// validateRemote checks the remote base URL, which must be https unless
// AllowInsecure is set, and fills in the probe address.
func (c *Config) validateRemote() error {
	if err := validateHTTPURL(c.Remote.BaseURL, "REMOTE_BASE_URL"); err != nil {
		return err
	}
	if !c.Remote.AllowInsecure {
		if err := requireHTTPS(c.Remote.BaseURL, "REMOTE_BASE_URL"); err != nil {
			return err
		}
	}

	if c.Remote.ProbeAddress == "" {
		addr, err := probeAddressFromURL(c.Remote.BaseURL)
		if err != nil {
			return fmt.Errorf("REMOTE_PROBE_ADDRESS cannot be derived: %w", err)
		}
		c.Remote.ProbeAddress = addr
	}

	return nil
}

func (c *Config) validateDurations() error {
	durations := []struct {
		name  string
		value int64
	}{
		{"REMOTE_TIMEOUT", int64(c.Remote.Timeout)},
		{"REMOTE_BREAKER_OPEN_TIMEOUT", int64(c.Remote.BreakerOpenTimeout)},
		{"RECORD_CACHE_TTL", int64(c.Records.CacheTTL)},
		{"SERVER_SHUTDOWN_TIMEOUT", int64(c.Server.ShutdownTimeout)},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}

	if !c.Remote.Offline && c.Remote.ProbeInterval <= 0 {
		return fmt.Errorf("REMOTE_PROBE_INTERVAL must be positive unless REMOTE_OFFLINE=true")
	}

	return nil
}
