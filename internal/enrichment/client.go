// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package enrichment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/videomark/internal/config"
	"github.com/tomtom215/videomark/internal/metrics"
	"github.com/tomtom215/videomark/internal/models"
)

// Endpoint paths relative to the base URL.
const (
	EndpointFixedQoE  = "fixed_qoe"
	EndpointStatsInfo = "stats/info"
)

// maxErrorBodySize limits how much of an error response body is kept.
const maxErrorBodySize = 64 * 1024 // 64KB

// Client is the Remote Enrichment Port.
//
// Implementations return an empty slice when the service knows nothing about
// the requested viewings.
type Client interface {
	FixedQoE(ctx context.Context, ids []models.ViewingPair) ([]models.FixedQoE, error)
	StatsInfo(ctx context.Context, videoID, sessionID string) ([]models.StatsInfo, error)
}

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsStatusError reports whether err carries a *StatusError.
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

// HTTPClient talks to the statistics service over HTTP(S).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a client from the remote configuration.
// A RateLimit of 0 disables outbound rate limiting.
func NewHTTPClient(cfg *config.RemoteConfig) *HTTPClient {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// FixedQoE looks up the fixed quality scores of a batch of viewings.
func (c *HTTPClient) FixedQoE(ctx context.Context, ids []models.ViewingPair) ([]models.FixedQoE, error) {
	var result []models.FixedQoE
	if err := c.post(ctx, EndpointFixedQoE, models.FixedQoERequest{IDs: ids}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// StatsInfo looks up the region and ISP of one viewing.
func (c *HTTPClient) StatsInfo(ctx context.Context, videoID, sessionID string) ([]models.StatsInfo, error) {
	var result []models.StatsInfo
	req := models.StatsInfoRequest{Video: videoID, Session: sessionID}
	if err := c.post(ctx, EndpointStatsInfo, req, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// post sends body as JSON to endpoint and decodes the JSON answer into result.
func (c *HTTPClient) post(ctx context.Context, endpoint string, body, result interface{}) error {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordEnrichmentRequest(endpoint, "rate_limited", time.Since(start))
		return fmt.Errorf("%s: rate limit wait: %w", endpoint, err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordEnrichmentRequest(endpoint, "transport_error", time.Since(start))
		return fmt.Errorf("%s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordEnrichmentRequest(endpoint, "status_error", time.Since(start))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		metrics.RecordEnrichmentRequest(endpoint, "decode_error", time.Since(start))
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}

	metrics.RecordEnrichmentRequest(endpoint, "success", time.Since(start))
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes of a response body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
