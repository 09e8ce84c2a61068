// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/engine"
	"github.com/offerdex/offerdex/internal/tools"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// recordingEngine captures the last request per operation and returns canned
// results.
type recordingEngine struct {
	searchReq *engine.SearchRequest
	topArgs   []any

	searchErr error
}

func (e *recordingEngine) Search(_ context.Context, req engine.SearchRequest) ([]catalog.ProductResult, error) {
	e.searchReq = &req
	if e.searchErr != nil {
		return nil, e.searchErr
	}
	name := "widget"
	return []catalog.ProductResult{{Name: &name, EPC: 1.5}}, nil
}

func (e *recordingEngine) Categories(context.Context) ([]catalog.CategoryCount, error) {
	return []catalog.CategoryCount{{Category: "Electronics", ProductCount: 2}}, nil
}

func (e *recordingEngine) TopProducts(_ context.Context, category string, limit int) ([]catalog.ProductResult, error) {
	e.topArgs = []any{category, limit}
	return []catalog.ProductResult{}, nil
}

func (e *recordingEngine) Stats(context.Context) (*catalog.Stats, error) {
	return &catalog.Stats{TotalProducts: 9}, nil
}

func TestDefinitionsCoverEveryTool(t *testing.T) {
	r := tools.NewRegistry(&recordingEngine{})
	defs := r.Definitions()
	require.Len(t, defs, 4)

	names := make(map[string]bool)
	for _, def := range defs {
		names[def.Name] = true
		assert.NotEmpty(t, def.Description)
		assert.Equal(t, "object", def.InputSchema["type"])
	}
	assert.True(t, names[tools.ToolSearchProducts])
	assert.True(t, names[tools.ToolGetCategories])
	assert.True(t, names[tools.ToolGetTopProducts])
	assert.True(t, names[tools.ToolGetProductStats])
}

func TestDispatchSearchProducts(t *testing.T) {
	eng := &recordingEngine{}
	r := tools.NewRegistry(eng)

	out, err := r.Dispatch(context.Background(), tools.ToolSearchProducts,
		`{"query":"usb hub","num_results":3,"min_epc":2.5,"category":"Electronics"}`)
	require.NoError(t, err)

	require.NotNil(t, eng.searchReq)
	assert.Equal(t, "usb hub", eng.searchReq.Query)
	assert.Equal(t, 3, eng.searchReq.Limit)
	require.NotNil(t, eng.searchReq.MinEPC)
	assert.Equal(t, 2.5, *eng.searchReq.MinEPC)
	assert.Equal(t, "Electronics", eng.searchReq.Category)

	var results []catalog.ProductResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 1.5, results[0].EPC)
}

func TestDispatchSearchOmittedOptionals(t *testing.T) {
	eng := &recordingEngine{}
	r := tools.NewRegistry(eng)

	_, err := r.Dispatch(context.Background(), tools.ToolSearchProducts, `{"query":"usb hub"}`)
	require.NoError(t, err)
	assert.Equal(t, 0, eng.searchReq.Limit)
	assert.Nil(t, eng.searchReq.MinEPC)
	assert.Empty(t, eng.searchReq.Category)
}

func TestDispatchSearchMistypedOptionalsUseDefaults(t *testing.T) {
	eng := &recordingEngine{}
	r := tools.NewRegistry(eng)

	_, err := r.Dispatch(context.Background(), tools.ToolSearchProducts,
		`{"query":"usb hub","num_results":"5","min_epc":"high","category":7}`)
	require.NoError(t, err)

	require.NotNil(t, eng.searchReq)
	assert.Equal(t, "usb hub", eng.searchReq.Query)
	assert.Equal(t, 0, eng.searchReq.Limit)
	assert.Nil(t, eng.searchReq.MinEPC)
	assert.Empty(t, eng.searchReq.Category)
}

func TestDispatchSearchMistypedQueryIsInvalid(t *testing.T) {
	r := tools.NewRegistry(&recordingEngine{})

	_, err := r.Dispatch(context.Background(), tools.ToolSearchProducts, `{"query":42}`)
	require.Error(t, err)
	assert.Equal(t, odxerr.CodeToolArgumentInvalid, odxerr.CodeOf(err))
}

func TestDispatchTopProductsMistypedOptionalsUseDefaults(t *testing.T) {
	eng := &recordingEngine{}
	r := tools.NewRegistry(eng)

	_, err := r.Dispatch(context.Background(), tools.ToolGetTopProducts,
		`{"category":[],"limit":"ten"}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"", 0}, eng.topArgs)
}

func TestDispatchGetCategories(t *testing.T) {
	r := tools.NewRegistry(&recordingEngine{})

	out, err := r.Dispatch(context.Background(), tools.ToolGetCategories, "")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category":"Electronics","product_count":2}]`, out)
}

func TestDispatchGetTopProducts(t *testing.T) {
	eng := &recordingEngine{}
	r := tools.NewRegistry(eng)

	_, err := r.Dispatch(context.Background(), tools.ToolGetTopProducts, `{"category":"Home","limit":7}`)
	require.NoError(t, err)
	assert.Equal(t, []any{"Home", 7}, eng.topArgs)
}

func TestDispatchGetProductStats(t *testing.T) {
	r := tools.NewRegistry(&recordingEngine{})

	out, err := r.Dispatch(context.Background(), tools.ToolGetProductStats, "{}")
	require.NoError(t, err)

	var stats catalog.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 9, stats.TotalProducts)
}

func TestDispatchUnknownTool(t *testing.T) {
	r := tools.NewRegistry(&recordingEngine{})

	_, err := r.Dispatch(context.Background(), "delete_products", "{}")
	require.Error(t, err)
	assert.Equal(t, odxerr.CodeToolNotFound, odxerr.CodeOf(err))
}

func TestDispatchMalformedArguments(t *testing.T) {
	r := tools.NewRegistry(&recordingEngine{})

	_, err := r.Dispatch(context.Background(), tools.ToolSearchProducts, `{"query":`)
	require.Error(t, err)
	assert.Equal(t, odxerr.CodeToolArgumentInvalid, odxerr.CodeOf(err))
}

func TestDispatchEngineErrorPassesThrough(t *testing.T) {
	eng := &recordingEngine{
		searchErr: odxerr.New(odxerr.CodeEngineQueryInvalid, "query must not be empty"),
	}
	r := tools.NewRegistry(eng)

	_, err := r.Dispatch(context.Background(), tools.ToolSearchProducts, `{"query":""}`)
	require.Error(t, err)
	assert.Equal(t, odxerr.CodeEngineQueryInvalid, odxerr.CodeOf(err))
}
