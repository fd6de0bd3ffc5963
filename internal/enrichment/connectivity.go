// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package enrichment

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/tomtom215/videomark/internal/logging"
	"github.com/tomtom215/videomark/internal/metrics"
)

// Connectivity reports whether the host currently has network access to the
// statistics service.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Static is a Connectivity with a fixed answer.
type Static bool

// Online implements Connectivity.
func (s Static) Online(context.Context) bool { return bool(s) }

// DialFunc opens a connection; net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Probe tracks connectivity by dialing the statistics host on an interval.
//
// Probe implements suture.Service. It assumes the host is online until the
// first check completes so that lookups are not suppressed during startup.
type Probe struct {
	address  string
	interval time.Duration
	timeout  time.Duration
	dial     DialFunc
	online   atomic.Bool
}

// NewProbe creates a probe for address (host:port). A nil dial uses net.Dialer.
func NewProbe(address string, interval, timeout time.Duration, dial DialFunc) *Probe {
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &Probe{
		address:  address,
		interval: interval,
		timeout:  timeout,
		dial:     dial,
	}
	p.online.Store(true)
	metrics.SetOnline(true)
	return p
}

// Online implements Connectivity.
func (p *Probe) Online(context.Context) bool {
	return p.online.Load()
}

// Check dials the statistics host once and records the result.
func (p *Probe) Check(ctx context.Context) bool {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	online := true
	conn, err := p.dial(dialCtx, "tcp", p.address)
	if err != nil {
		online = false
	} else {
		_ = conn.Close()
	}

	if previous := p.online.Swap(online); previous != online {
		event := logging.Info()
		if !online {
			event = logging.Warn().Err(err)
		}
		event.Str("address", p.address).Bool("online", online).Msg("Connectivity changed")
	}
	metrics.SetOnline(online)
	return online
}

// Serve implements suture.Service. It checks immediately, then on every tick
// until ctx is canceled.
func (p *Probe) Serve(ctx context.Context) error {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (p *Probe) String() string {
	return "connectivity-probe"
}
