// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package store defines the storage interfaces the query engine and the
// ingestion pipeline depend on. The catalog store is the source of truth
// for all non-vector attributes; the vector index owns one embedding per
// link id. For every link id in one there is exactly one entry in the
// other — ingestion establishes the invariant, readers may assume it.
package store

import (
	"context"

	"github.com/offerdex/offerdex/internal/catalog"
)

// DefaultVectorDimensions matches the text-embedding-3-small output size.
const DefaultVectorDimensions = 1536

// CatalogStore is the read side of the relational product table.
type CatalogStore interface {
	// GetByLinkIDs returns full records for the given link ids, keyed by
	// link id. Missing ids are simply absent from the result.
	GetByLinkIDs(ctx context.Context, linkIDs []string) (map[string]*catalog.ProductRecord, error)

	// Count returns the total number of catalog records.
	Count(ctx context.Context) (int, error)

	// Categories returns every distinct non-null category with its record
	// count, ordered by count descending, ties broken by name ascending.
	Categories(ctx context.Context) ([]catalog.CategoryCount, error)

	// TopProducts returns records ordered by normalized seven-day EPC
	// descending, absent values sorting last. An empty category means no
	// category filter; matching is exact and case-sensitive.
	TopProducts(ctx context.Context, category string, limit int) ([]catalog.ProductRecord, error)

	// Stats aggregates the catalog.
	Stats(ctx context.Context) (*catalog.Stats, error)
}

// VectorMatch is one nearest-neighbor candidate, ordered by ascending
// cosine distance.
type VectorMatch struct {
	LinkID   string
	Distance float64
}

// VectorIndex is the read side of the embedding index.
type VectorIndex interface {
	// Search returns the k nearest neighbors of the query vector by cosine
	// distance, ascending.
	Search(ctx context.Context, query []float32, k int) ([]VectorMatch, error)
}

// IngestStore is the write side, used only by the ingestion pipeline,
// which owns exclusive write access for the duration of a run.
type IngestStore interface {
	// Reset drops and recreates both the catalog table and the vector
	// index, establishing a known-empty target.
	Reset(ctx context.Context) error

	// InsertBatch writes records and their embeddings in one transaction.
	// Either the whole batch lands in both tables or none of it does.
	InsertBatch(ctx context.Context, records []catalog.ProductRecord, embeddings [][]float32) error

	// BuildIndexes creates the secondary indexes on category and EPC after
	// the bulk load.
	BuildIndexes(ctx context.Context) error
}

// Config selects the storage location and vector geometry.
type Config struct {
	Path             string // database file path
	VectorDimensions int    // 0 uses DefaultVectorDimensions
}
