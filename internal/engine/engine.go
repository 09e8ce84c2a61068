// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package engine answers catalog queries. Semantic search embeds the query
// text, runs a nearest-neighbor lookup over the vector index, and joins the
// matches back to full product records. Aggregate queries go straight to
// the catalog store.
package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/provider"
	"github.com/offerdex/offerdex/internal/store"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

const (
	// DefaultSearchLimit is used when a search request has no limit.
	DefaultSearchLimit = 5
	// DefaultTopLimit is used when a top-products request has no limit.
	DefaultTopLimit = 10
)

// SearchRequest describes one semantic search.
type SearchRequest struct {
	Query    string
	Limit    int
	MinEPC   *float64 // keep results whose normalized 7-day EPC is at least this
	Category string   // exact, case-sensitive category match when non-empty
}

// Engine executes catalog queries.
type Engine struct {
	catalog  store.CatalogStore
	index    store.VectorIndex
	embedder provider.Embedder
	logger   *slog.Logger
}

// New creates an engine over the given store and embedder.
func New(cat store.CatalogStore, index store.VectorIndex, embedder provider.Embedder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{catalog: cat, index: index, embedder: embedder, logger: logger}
}

// Search returns up to req.Limit products ranked by similarity to the query
// text. Filters are applied to the full candidate set before truncation, so
// a strict filter never empties the results while matching products exist.
func (e *Engine) Search(ctx context.Context, req SearchRequest) ([]catalog.ProductResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, odxerr.New(odxerr.CodeEngineQueryInvalid, "query must not be empty")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query, err := e.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	filtered := req.MinEPC != nil || req.Category != ""
	k := limit
	if filtered {
		// Widen the neighbor set to the whole catalog so filtering
		// happens before truncation.
		total, err := e.catalog.Count(ctx)
		if err != nil {
			return nil, err
		}
		k = total
	}

	matches, err := e.index.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []catalog.ProductResult{}, nil
	}

	linkIDs := make([]string, len(matches))
	for i, m := range matches {
		linkIDs[i] = m.LinkID
	}
	records, err := e.catalog.GetByLinkIDs(ctx, linkIDs)
	if err != nil {
		return nil, err
	}

	results := make([]catalog.ProductResult, 0, limit)
	for _, m := range matches {
		rec, ok := records[m.LinkID]
		if !ok {
			continue
		}
		if req.MinEPC != nil && rec.EPC7Day.Normalize() < *req.MinEPC {
			continue
		}
		if req.Category != "" && (rec.Category == nil || *rec.Category != req.Category) {
			continue
		}
		relevance := catalog.RoundTo(1-m.Distance, 3)
		results = append(results, rec.Result(&relevance))
		if len(results) == limit {
			break
		}
	}

	e.logger.Debug("search completed",
		"candidates", len(matches),
		"results", len(results),
		"filtered", filtered)
	return results, nil
}

// Categories lists every category with its product count, most populous
// first.
func (e *Engine) Categories(ctx context.Context) ([]catalog.CategoryCount, error) {
	cats, err := e.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []catalog.CategoryCount{}
	}
	return cats, nil
}

// TopProducts returns up to limit products ordered by normalized 7-day EPC,
// highest first, optionally restricted to one category.
func (e *Engine) TopProducts(ctx context.Context, category string, limit int) ([]catalog.ProductResult, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	records, err := e.catalog.TopProducts(ctx, category, limit)
	if err != nil {
		return nil, err
	}
	results := make([]catalog.ProductResult, len(records))
	for i := range records {
		results[i] = records[i].Result(nil)
	}
	return results, nil
}

// Stats returns catalog-wide aggregates.
func (e *Engine) Stats(ctx context.Context) (*catalog.Stats, error) {
	return e.catalog.Stats(ctx)
}
