// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/engine"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search-products",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search products by meaning",
		Tags:        []string{"catalog"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories with product counts",
		Tags:        []string{"catalog"},
	}, s.handleCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "top-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/top",
		Summary:     "List products with the highest 7-day EPC",
		Tags:        []string{"catalog"},
	}, s.handleTopProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "catalog-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Catalog-wide aggregates",
		Tags:        []string{"catalog"},
	}, s.handleStats)

	// Tool-call surface for clients that dispatch by operation name.
	huma.Register(s.api, huma.Operation{
		OperationID: "list-tools",
		Method:      http.MethodGet,
		Path:        "/api/v1/tools",
		Summary:     "List callable tools",
		Tags:        []string{"tools"},
	}, s.handleListTools)

	huma.Register(s.api, huma.Operation{
		OperationID: "call-tool",
		Method:      http.MethodPost,
		Path:        "/api/v1/tools/{name}",
		Summary:     "Call a tool by name",
		Tags:        []string{"tools"},
	}, s.handleCallTool)
}

// --- Request/Response types for huma ---

type searchInput struct {
	Body struct {
		Query      string   `json:"query" minLength:"1" doc:"Natural-language product query"`
		NumResults int      `json:"num_results,omitempty" doc:"Maximum results, default 5"`
		MinEPC     *float64 `json:"min_epc,omitempty" doc:"Minimum normalized 7-day EPC"`
		Category   string   `json:"category,omitempty" doc:"Exact category filter"`
	}
}
type searchOutput struct {
	Body struct {
		Results []catalog.ProductResult `json:"results"`
	}
}

type categoriesOutput struct {
	Body struct {
		Categories []catalog.CategoryCount `json:"categories"`
	}
}

type topProductsInput struct {
	Category string `query:"category" doc:"Exact category filter"`
	Limit    int    `query:"limit" doc:"Maximum results, default 10"`
}
type topProductsOutput struct {
	Body struct {
		Products []catalog.ProductResult `json:"products"`
	}
}

type statsOutput struct {
	Body catalog.Stats
}

type toolSummary struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}
type listToolsOutput struct {
	Body struct {
		Tools []toolSummary `json:"tools"`
	}
}

type callToolInput struct {
	Name    string `path:"name"`
	RawBody []byte `doc:"Tool arguments as a JSON object"`
}
type callToolOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// --- Handlers ---

func (s *Server) handleSearch(ctx context.Context, input *searchInput) (*searchOutput, error) {
	results, err := s.engine.Search(ctx, engine.SearchRequest{
		Query:    input.Body.Query,
		Limit:    input.Body.NumResults,
		MinEPC:   input.Body.MinEPC,
		Category: input.Body.Category,
	})
	if err != nil {
		return nil, asHumaError(err)
	}
	out := &searchOutput{}
	out.Body.Results = results
	return out, nil
}

func (s *Server) handleCategories(ctx context.Context, _ *struct{}) (*categoriesOutput, error) {
	cats, err := s.engine.Categories(ctx)
	if err != nil {
		return nil, asHumaError(err)
	}
	out := &categoriesOutput{}
	out.Body.Categories = cats
	return out, nil
}

func (s *Server) handleTopProducts(ctx context.Context, input *topProductsInput) (*topProductsOutput, error) {
	products, err := s.engine.TopProducts(ctx, input.Category, input.Limit)
	if err != nil {
		return nil, asHumaError(err)
	}
	out := &topProductsOutput{}
	out.Body.Products = products
	return out, nil
}

func (s *Server) handleStats(ctx context.Context, _ *struct{}) (*statsOutput, error) {
	stats, err := s.engine.Stats(ctx)
	if err != nil {
		return nil, asHumaError(err)
	}
	return &statsOutput{Body: *stats}, nil
}

func (s *Server) handleListTools(_ context.Context, _ *struct{}) (*listToolsOutput, error) {
	defs := s.registry.Definitions()
	out := &listToolsOutput{}
	out.Body.Tools = make([]toolSummary, len(defs))
	for i, def := range defs {
		out.Body.Tools[i] = toolSummary{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}
	}
	return out, nil
}

func (s *Server) handleCallTool(ctx context.Context, input *callToolInput) (*callToolOutput, error) {
	result, err := s.registry.Dispatch(ctx, input.Name, string(input.RawBody))
	if err != nil {
		return nil, asHumaError(err)
	}
	return &callToolOutput{ContentType: "application/json", Body: []byte(result)}, nil
}

// asHumaError converts a domain error into a huma status error so the error
// code taxonomy drives the HTTP status.
func asHumaError(err error) error {
	return huma.NewError(odxerr.HTTPStatus(err), err.Error())
}
