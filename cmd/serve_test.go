package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newServeMux(rate.NewLimiter(rate.Inf, 0)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServe_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServe_Score(t *testing.T) {
	srv := newTestServer(t)

	req := scoreRequest{
		Items: []model.ContentItem{
			{EngagementTotal: 5000, PostValueScore: 75, CreatorCredibility: 300, TrustScore: 0.8, Type: model.ContentTypeShortVideo},
			{EngagementTotal: 5000, PostValueScore: 75, CreatorCredibility: 300, TrustScore: 0.8, Type: model.ContentTypePodcast},
		},
	}

	resp := postJSON(t, srv.URL+"/v1/score", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body scoreResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Weights, 2)
	// Podcast carries a 2.5x type multiplier vs 1.0x for short video.
	assert.InDelta(t, 2.5, body.Weights[1]/body.Weights[0], 1e-9)
	assert.InDelta(t, body.Weights[0]+body.Weights[1], body.TotalWeight, 1e-9)
}

func TestServe_Score_EmptyItems(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/score", scoreRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_Score_InvalidItem(t *testing.T) {
	srv := newTestServer(t)

	req := scoreRequest{
		Items: []model.ContentItem{
			{EngagementTotal: 100, PostValueScore: 500, CreatorCredibility: 300, TrustScore: 0.8, Type: model.ContentTypeText},
		},
	}

	resp := postJSON(t, srv.URL+"/v1/score", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_Scenario(t *testing.T) {
	srv := newTestServer(t)

	req := scenarioRequest{Config: scenario.DefaultConfig(), Periods: 3}

	resp := postJSON(t, srv.URL+"/v1/scenario", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Snapshots []model.EconomicSnapshot `json:"snapshots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Snapshots, 3)
	assert.Equal(t, 1, body.Snapshots[0].Period)
}

func TestServe_Scenario_BadPeriods(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/scenario", scenarioRequest{Config: scenario.DefaultConfig()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_Scenario_BadConfig(t *testing.T) {
	srv := newTestServer(t)

	cfg := scenario.DefaultConfig()
	cfg.Strategy = "yolo"

	resp := postJSON(t, srv.URL+"/v1/scenario", scenarioRequest{Config: cfg, Periods: 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_RateLimit(t *testing.T) {
	srv := httptest.NewServer(newServeMux(rate.NewLimiter(1, 1)))
	defer srv.Close()

	req := scoreRequest{
		Items: []model.ContentItem{
			{EngagementTotal: 100, PostValueScore: 75, CreatorCredibility: 300, TrustScore: 0.8, Type: model.ContentTypeText},
		},
	}

	first := postJSON(t, srv.URL+"/v1/score", req)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, srv.URL+"/v1/score", req)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestServe_HealthNotRateLimited(t *testing.T) {
	srv := httptest.NewServer(newServeMux(rate.NewLimiter(1, 1)))
	defer srv.Close()

	for range 5 {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
