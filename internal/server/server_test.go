// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/engine"
	"github.com/offerdex/offerdex/internal/server"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
	"github.com/offerdex/offerdex/pkg/health"
)

type stubEngine struct {
	searchReq *engine.SearchRequest
	searchErr error
	topArgs   []any
}

func (e *stubEngine) Search(_ context.Context, req engine.SearchRequest) ([]catalog.ProductResult, error) {
	e.searchReq = &req
	if e.searchErr != nil {
		return nil, e.searchErr
	}
	name := "usb hub"
	rel := 0.91
	return []catalog.ProductResult{{Name: &name, EPC: 2.5, Relevance: &rel}}, nil
}

func (e *stubEngine) Categories(context.Context) ([]catalog.CategoryCount, error) {
	return []catalog.CategoryCount{{Category: "Electronics", ProductCount: 4}}, nil
}

func (e *stubEngine) TopProducts(_ context.Context, category string, limit int) ([]catalog.ProductResult, error) {
	e.topArgs = []any{category, limit}
	return []catalog.ProductResult{}, nil
}

func (e *stubEngine) Stats(context.Context) (*catalog.Stats, error) {
	return &catalog.Stats{TotalProducts: 12, Categories: 3}, nil
}

func newTestServer(t *testing.T, eng *stubEngine) *httptest.Server {
	t.Helper()
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, eng,
		slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, into any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestNewRequiresListenAddr(t *testing.T) {
	_, err := server.New(server.Config{}, &stubEngine{}, nil)
	require.Error(t, err)
	assert.Equal(t, odxerr.CodeServerStartFailure, odxerr.CodeOf(err))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubEngine{})

	var body struct {
		Status string `json:"status"`
	}
	status := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.Status)
}

func TestSearchEndpoint(t *testing.T) {
	eng := &stubEngine{}
	ts := newTestServer(t, eng)

	var body struct {
		Results []catalog.ProductResult `json:"results"`
	}
	status := postJSON(t, ts.URL+"/api/v1/search",
		`{"query":"usb hub","num_results":3,"min_epc":1.5,"category":"Electronics"}`, &body)
	require.Equal(t, http.StatusOK, status)

	require.NotNil(t, eng.searchReq)
	assert.Equal(t, "usb hub", eng.searchReq.Query)
	assert.Equal(t, 3, eng.searchReq.Limit)
	require.NotNil(t, eng.searchReq.MinEPC)
	assert.Equal(t, 1.5, *eng.searchReq.MinEPC)
	assert.Equal(t, "Electronics", eng.searchReq.Category)

	require.Len(t, body.Results, 1)
	assert.Equal(t, 2.5, body.Results[0].EPC)
	require.NotNil(t, body.Results[0].Relevance)
	assert.Equal(t, 0.91, *body.Results[0].Relevance)
}

func TestSearchEngineErrorMapsToStatus(t *testing.T) {
	eng := &stubEngine{
		searchErr: odxerr.New(odxerr.CodeEngineQueryInvalid, "query must not be empty"),
	}
	ts := newTestServer(t, eng)

	status := postJSON(t, ts.URL+"/api/v1/search", `{"query":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSearchProviderTimeoutMapsToGatewayTimeout(t *testing.T) {
	eng := &stubEngine{
		searchErr: odxerr.New(odxerr.CodeProviderEmbedTimeout, "embedding request timed out"),
	}
	ts := newTestServer(t, eng)

	status := postJSON(t, ts.URL+"/api/v1/search", `{"query":"x"}`, nil)
	assert.Equal(t, http.StatusGatewayTimeout, status)
}

func TestCategoriesEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubEngine{})

	var body struct {
		Categories []catalog.CategoryCount `json:"categories"`
	}
	status := getJSON(t, ts.URL+"/api/v1/categories", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Electronics", body.Categories[0].Category)
	assert.Equal(t, 4, body.Categories[0].ProductCount)
}

func TestTopProductsEndpoint(t *testing.T) {
	eng := &stubEngine{}
	ts := newTestServer(t, eng)

	status := getJSON(t, ts.URL+"/api/v1/products/top?category=Home&limit=7", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"Home", 7}, eng.topArgs)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubEngine{})

	var body catalog.Stats
	status := getJSON(t, ts.URL+"/api/v1/stats", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 12, body.TotalProducts)
	assert.Equal(t, 3, body.Categories)
}

func TestListToolsEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubEngine{})

	var body struct {
		Tools []struct {
			Name        string         `json:"name"`
			InputSchema map[string]any `json:"input_schema"`
		} `json:"tools"`
	}
	status := getJSON(t, ts.URL+"/api/v1/tools", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Tools, 4)
	assert.Equal(t, "object", body.Tools[0].InputSchema["type"])
}

func TestCallToolEndpoint(t *testing.T) {
	eng := &stubEngine{}
	ts := newTestServer(t, eng)

	var results []catalog.ProductResult
	status := postJSON(t, ts.URL+"/api/v1/tools/search_products", `{"query":"usb hub"}`, &results)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, results, 1)
	require.NotNil(t, eng.searchReq)
	assert.Equal(t, "usb hub", eng.searchReq.Query)
}

func TestHealthIncludesProviderMetrics(t *testing.T) {
	srv, err := server.New(server.Config{
		ListenAddr: "127.0.0.1:0",
		ProviderHealth: func() health.Metrics {
			return health.Metrics{FailureCount: 2, Available: true}
		},
	}, &stubEngine{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	var body struct {
		Status   string          `json:"status"`
		Provider *health.Metrics `json:"provider"`
	}
	status := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, body.Provider)
	assert.True(t, body.Provider.Available)
	assert.Equal(t, int64(2), body.Provider.FailureCount)
}

func TestCallUnknownToolReturns404(t *testing.T) {
	ts := newTestServer(t, &stubEngine{})

	status := postJSON(t, ts.URL+"/api/v1/tools/delete_products", `{}`, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
