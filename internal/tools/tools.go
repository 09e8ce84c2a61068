// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package tools exposes the catalog query operations as named tools with
// JSON schemas and JSON argument payloads, for callers that dispatch by
// operation name (the HTTP API and the CLI both go through here).
package tools

import (
	"context"
	"encoding/json"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/engine"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// Tool names.
const (
	ToolSearchProducts  = "search_products"
	ToolGetCategories   = "get_categories"
	ToolGetTopProducts  = "get_top_products"
	ToolGetProductStats = "get_product_stats"
)

// Definition describes one tool: its name, what it does, and the JSON
// schema of its arguments.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// QueryEngine is the slice of the engine the tool surface needs.
type QueryEngine interface {
	Search(ctx context.Context, req engine.SearchRequest) ([]catalog.ProductResult, error)
	Categories(ctx context.Context) ([]catalog.CategoryCount, error)
	TopProducts(ctx context.Context, category string, limit int) ([]catalog.ProductResult, error)
	Stats(ctx context.Context) (*catalog.Stats, error)
}

// Registry dispatches tool calls to a query engine. It is stateless and
// safe for concurrent use.
type Registry struct {
	engine QueryEngine
}

// NewRegistry creates a registry over the given engine.
func NewRegistry(e QueryEngine) *Registry {
	return &Registry{engine: e}
}

// Definitions returns every tool the registry can dispatch.
func (r *Registry) Definitions() []Definition {
	return []Definition{
		{
			Name:        ToolSearchProducts,
			Description: "Search affiliate products by meaning. Returns products ranked by similarity to the query, optionally filtered by minimum 7-day EPC and category.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Natural-language description of the products to find",
					},
					"num_results": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 5)",
					},
					"min_epc": map[string]any{
						"type":        "number",
						"description": "Keep only products whose 7-day EPC is at least this value",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Keep only products in exactly this category",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        ToolGetCategories,
			Description: "List every product category with its product count, most populous first.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        ToolGetTopProducts,
			Description: "List products with the highest 7-day EPC, optionally within one category.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"category": map[string]any{
						"type":        "string",
						"description": "Restrict to exactly this category",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 10)",
					},
				},
			},
		},
		{
			Name:        ToolGetProductStats,
			Description: "Summarize the catalog: totals, average EPC, coupon count, and the largest categories.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Raw argument shapes. Optional fields stay unparsed here so a mis-typed
// value can fall back to its default instead of failing the call; only the
// required query is decoded strictly.
type rawSearchArgs struct {
	Query      json.RawMessage `json:"query"`
	NumResults json.RawMessage `json:"num_results"`
	MinEPC     json.RawMessage `json:"min_epc"`
	Category   json.RawMessage `json:"category"`
}

type rawTopProductsArgs struct {
	Category json.RawMessage `json:"category"`
	Limit    json.RawMessage `json:"limit"`
}

// Dispatch runs the named tool with JSON arguments and returns its JSON
// result. An empty arguments string is treated as an empty object.
func (r *Registry) Dispatch(ctx context.Context, name, arguments string) (string, error) {
	if arguments == "" {
		arguments = "{}"
	}

	switch name {
	case ToolSearchProducts:
		var raw rawSearchArgs
		if err := decode(arguments, &raw); err != nil {
			return "", err
		}
		var query string
		if raw.Query != nil {
			if err := json.Unmarshal(raw.Query, &query); err != nil {
				return "", odxerr.Wrap(err, odxerr.CodeToolArgumentInvalid, "query must be a string")
			}
		}
		results, err := r.engine.Search(ctx, engine.SearchRequest{
			Query:    query,
			Limit:    optionalInt(raw.NumResults),
			MinEPC:   optionalFloat(raw.MinEPC),
			Category: optionalString(raw.Category),
		})
		if err != nil {
			return "", err
		}
		return encode(results)

	case ToolGetCategories:
		if err := decode(arguments, &struct{}{}); err != nil {
			return "", err
		}
		cats, err := r.engine.Categories(ctx)
		if err != nil {
			return "", err
		}
		return encode(cats)

	case ToolGetTopProducts:
		var raw rawTopProductsArgs
		if err := decode(arguments, &raw); err != nil {
			return "", err
		}
		results, err := r.engine.TopProducts(ctx, optionalString(raw.Category), optionalInt(raw.Limit))
		if err != nil {
			return "", err
		}
		return encode(results)

	case ToolGetProductStats:
		if err := decode(arguments, &struct{}{}); err != nil {
			return "", err
		}
		stats, err := r.engine.Stats(ctx)
		if err != nil {
			return "", err
		}
		return encode(stats)

	default:
		return "", odxerr.Errorf(odxerr.CodeToolNotFound, "unknown tool %q", name)
	}
}

func decode(arguments string, into any) error {
	if err := json.Unmarshal([]byte(arguments), into); err != nil {
		return odxerr.Wrap(err, odxerr.CodeToolArgumentInvalid, "decoding tool arguments")
	}
	return nil
}

// Optional-argument parsers: a missing or mis-typed value yields the zero
// value, which the engine replaces with the operation's default.

func optionalInt(raw json.RawMessage) int {
	var v int
	if raw == nil || json.Unmarshal(raw, &v) != nil {
		return 0
	}
	return v
}

func optionalFloat(raw json.RawMessage) *float64 {
	var v float64
	if raw == nil || json.Unmarshal(raw, &v) != nil {
		return nil
	}
	return &v
}

func optionalString(raw json.RawMessage) string {
	var v string
	if raw == nil || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v
}

func encode(result any) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", odxerr.Wrap(err, odxerr.CodeServerInternalFailure, "encoding tool result")
	}
	return string(data), nil
}
