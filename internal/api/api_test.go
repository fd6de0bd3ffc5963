// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/videomark/internal/enrichment"
	"github.com/tomtom215/videomark/internal/models"
	"github.com/tomtom215/videomark/internal/storage"
	"github.com/tomtom215/videomark/internal/viewing"
)

type stubRemote struct {
	qoe   []models.FixedQoE
	stats []models.StatsInfo
}

func (s *stubRemote) FixedQoE(context.Context, []models.ViewingPair) ([]models.FixedQoE, error) {
	return s.qoe, nil
}

func (s *stubRemote) StatsInfo(context.Context, string, string) ([]models.StatsInfo, error) {
	return s.stats, nil
}

type stubBreaker string

func (s stubBreaker) State() string { return string(s) }

type failingLister struct{}

func (failingLister) List(context.Context) (map[string]models.Attributes, error) {
	return nil, errors.New("disk on fire")
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type testServer struct {
	store  *storage.MemoryStore
	router http.Handler
}

func newTestServer(t *testing.T, conn enrichment.Connectivity, breaker BreakerState, cfg RouterConfig) *testServer {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	seed := map[string]models.Attributes{
		"yt-1": {
			models.KeySessionID: "s1", models.KeyVideoID: "v1",
			models.KeyTitle:     "First",
			models.KeyLocation:  "https://www.youtube.com/watch?v=v1",
			models.KeyStartTime: "2021-01-05T09:00:00Z",
			models.KeyRegion:    map[string]interface{}{"country": "JP", "subdivision": "13", "isp": "IIJ"},
		},
		"nf-1": {
			models.KeySessionID: "s2", models.KeyVideoID: "v2",
			models.KeyTitle:     "Second",
			models.KeyLocation:  "https://www.netflix.com/watch/1",
			models.KeyStartTime: "2021-02-05T09:00:00Z",
		},
	}
	for id, attrs := range seed {
		if err := store.Save(ctx, id, attrs); err != nil {
			t.Fatalf("seed Save() error = %v", err)
		}
	}

	remote := &stubRemote{
		qoe:   []models.FixedQoE{{ViewingID: "s1_v1", QoE: 4.25}},
		stats: []models.StatsInfo{{Session: "s2", Video: "v2", Country: "JP", Subdivision: "27", ISP: "NTT"}},
	}
	deps := viewing.Deps{Storage: store, Remote: remote, Connectivity: conn}
	handler := NewHandler(viewing.NewRepository(deps, 10, time.Minute), viewing.NewCatalog(store), conn, breaker)

	return &testServer{store: store, router: NewRouter(handler, cfg)}
}

func (s *testServer) get(t *testing.T, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s response: %v\n%s", path, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealthLive(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	rec, env := srv.get(t, "/api/v1/health/live")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("live = %d %q", rec.Code, env.Status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name        string
		conn        enrichment.Connectivity
		breaker     BreakerState
		wantStatus  string
		wantOnline  bool
		wantBreaker string
	}{
		{"online closed", enrichment.Static(true), stubBreaker("closed"), "healthy", true, "closed"},
		{"offline", enrichment.Static(false), stubBreaker("closed"), "degraded", false, "closed"},
		{"breaker open", enrichment.Static(true), stubBreaker("open"), "degraded", true, "open"},
		{"no remote", nil, nil, "degraded", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.conn, tt.breaker, RouterConfig{})

			rec, env := srv.get(t, "/api/v1/health/ready")
			if rec.Code != http.StatusOK {
				t.Fatalf("ready status = %d", rec.Code)
			}
			var health models.HealthStatus
			if err := json.Unmarshal(env.Data, &health); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if health.Status != tt.wantStatus || health.RemoteOnline != tt.wantOnline || health.CircuitBreaker != tt.wantBreaker {
				t.Errorf("health = %+v, want status %q online %v breaker %q", health, tt.wantStatus, tt.wantOnline, tt.wantBreaker)
			}
		})
	}
}

func TestViewings(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"yt-1", "nf-1"}},
		{"?service=youtube", []string{"yt-1"}},
		{"?year=2021&month=2", []string{"nf-1"}},
		{"?year=2021&month=2&tz=UTC", []string{"nf-1"}},
		{"?service=tver", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, env := srv.get(t, "/api/v1/viewings"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			var summaries []models.ViewingSummary
			if err := json.Unmarshal(env.Data, &summaries); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(summaries) != len(tt.want) {
				t.Fatalf("got %d viewings, want %d", len(summaries), len(tt.want))
			}
			for i, id := range tt.want {
				if summaries[i].ID != id {
					t.Errorf("viewing[%d] = %q, want %q", i, summaries[i].ID, id)
				}
			}
			if env.Metadata.Count != len(tt.want) {
				t.Errorf("metadata count = %d, want %d", env.Metadata.Count, len(tt.want))
			}
		})
	}
}

func TestViewings_InvalidQuery(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	tests := []string{
		"?service=vimeo",
		"?year=2021",
		"?month=3",
		"?year=abc&month=1",
		"?year=2021&month=13",
		"?year=2021&month=1&tz=Mars/Olympus",
	}
	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			rec, env := srv.get(t, "/api/v1/viewings"+query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != CodeValidation {
				t.Errorf("error = %+v, want %s", env.Error, CodeValidation)
			}
		})
	}
}

func TestViewingsRequest_AcceptsEveryService(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	for _, service := range viewing.Services() {
		rec, _ := srv.get(t, "/api/v1/viewings?service="+service)
		if rec.Code != http.StatusOK {
			t.Errorf("service %s rejected with %d", service, rec.Code)
		}
	}
}

func TestViewing(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	rec, env := srv.get(t, "/api/v1/viewings/yt-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var detail models.ViewingDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.ViewingID != "s1_v1" || detail.Title != "First" {
		t.Errorf("detail = %+v", detail)
	}
	if detail.QoE == nil || *detail.QoE != 4.25 {
		t.Errorf("detail.QoE = %v, want 4.25", detail.QoE)
	}
	if detail.Region == nil || detail.Region.Subdivision != "13" {
		t.Errorf("detail.Region = %+v, want stored region", detail.Region)
	}

	// The resolved score was persisted.
	stored, _ := srv.store.Load(context.Background(), "yt-1")
	if qoe, _ := stored.Float(models.KeyQoE); qoe != 4.25 {
		t.Errorf("stored qoe = %v, want 4.25", qoe)
	}
}

func TestViewing_Offline(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(false), nil, RouterConfig{})

	rec, env := srv.get(t, "/api/v1/viewings/nf-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["qoe"] != nil || raw["region"] != nil {
		t.Errorf("offline detail qoe = %v, region = %v; want null", raw["qoe"], raw["region"])
	}
}

func TestViewing_NotFound(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	rec, env := srv.get(t, "/api/v1/viewings/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Status != "error" || env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("envelope = %+v", env)
	}
}

func TestRegions(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})

	rec, env := srv.get(t, "/api/v1/regions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var regions []models.RegionKey
	if err := json.Unmarshal(env.Data, &regions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(regions) != 1 || regions[0] != (models.RegionKey{Country: "JP", Subdivision: "13"}) {
		t.Errorf("regions = %v", regions)
	}
}

func TestCatalogStorageError(t *testing.T) {
	store := storage.NewMemoryStore()
	deps := viewing.Deps{Storage: store}
	handler := NewHandler(viewing.NewRepository(deps, 10, time.Minute), viewing.NewCatalog(failingLister{}), nil, nil)
	router := NewRouter(handler, RouterConfig{})

	for _, path := range []string{"/api/v1/viewings", "/api/v1/regions"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", path, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "disk on fire") {
			t.Errorf("%s leaked the storage error to the client", path)
		}
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{RateLimit: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec, _ := srv.get(t, "/api/v1/health/live")
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, enrichment.Static(true), nil, RouterConfig{})
	srv.get(t, "/api/v1/health/live")

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output lacks api_requests_total")
	}
}
