// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/videomark/internal/config"
	"github.com/tomtom215/videomark/internal/logging"
	"github.com/tomtom215/videomark/internal/metrics"
	"github.com/tomtom215/videomark/internal/models"
)

// breakerName labels the breaker in logs and metrics.
const breakerName = "enrichment-api"

// CircuitBreakerClient wraps a Client with the circuit breaker pattern.
//
// While the circuit is open, calls fail fast with gobreaker.ErrOpenState.
// *StatusError answers in the 4xx range are the service's verdict on the
// request, not an outage, and do not count as failures.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client with a breaker configured from cfg:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - cfg.BreakerOpenTimeout before attempting recovery
//   - Opens at cfg.BreakerFailureRatio with at least cfg.BreakerMinRequests requests
func NewCircuitBreakerClient(client Client, cfg *config.RemoteConfig) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerOpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var statusErr *StatusError
			return errors.As(err, &statusErr) && statusErr.StatusCode < 500
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   breakerName,
	}
}

// execute runs fn through the circuit breaker and records the outcome.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if IsRejected(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Debug().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// IsRejected reports whether err means the breaker refused to run the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the current breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// castResult type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	typed, ok := result.([]T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// FixedQoE implements Client with circuit breaker protection.
func (cbc *CircuitBreakerClient) FixedQoE(ctx context.Context, ids []models.ViewingPair) ([]models.FixedQoE, error) {
	return castResult[models.FixedQoE](cbc.execute(func() (interface{}, error) {
		return cbc.client.FixedQoE(ctx, ids)
	}))
}

// StatsInfo implements Client with circuit breaker protection.
func (cbc *CircuitBreakerClient) StatsInfo(ctx context.Context, videoID, sessionID string) ([]models.StatsInfo, error) {
	return castResult[models.StatsInfo](cbc.execute(func() (interface{}, error) {
		return cbc.client.StatsInfo(ctx, videoID, sessionID)
	}))
}
