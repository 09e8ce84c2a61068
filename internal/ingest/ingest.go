// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package ingest rebuilds the product catalog from a feed of records.
//
// A run is destructive: existing catalog data is dropped before the new
// records are embedded and loaded. Records are processed in fixed-size
// batches and a failed batch aborts the whole run, leaving whatever was
// loaded so far in place. Callers that need all-or-nothing visibility
// should build into a scratch database and swap it in (see BuildAndSwap).
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/provider"
	"github.com/offerdex/offerdex/internal/store"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// DefaultBatchSize is the number of records embedded and inserted per batch.
const DefaultBatchSize = 100

// Config holds pipeline tuning knobs.
type Config struct {
	BatchSize int
}

// Stats summarizes a completed run.
type Stats struct {
	Rows       int           // records read from the source, duplicates included
	Duplicates int           // records dropped because an earlier row had the same link id
	Loaded     int           // records embedded and inserted
	Batches    int           // batches processed
	Duration   time.Duration // wall time for the whole run
}

// Pipeline loads product records into an ingest store.
type Pipeline struct {
	store     store.IngestStore
	embedder  provider.Embedder
	batchSize int
	logger    *slog.Logger
}

// New creates a pipeline. A zero or negative batch size falls back to
// DefaultBatchSize.
func New(st store.IngestStore, embedder provider.Embedder, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:     st,
		embedder:  embedder,
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
}

// Run drops the existing catalog and loads records into the store. Records
// sharing a link id are collapsed to the first occurrence before batching.
func (p *Pipeline) Run(ctx context.Context, records []catalog.ProductRecord) (*Stats, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := p.logger.With("run_id", runID)

	unique := dedupe(records)
	stats := &Stats{
		Rows:       len(records),
		Duplicates: len(records) - len(unique),
	}

	log.Info("ingest run started",
		"rows", stats.Rows,
		"duplicates", stats.Duplicates,
		"batch_size", p.batchSize)

	if err := p.store.Reset(ctx); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "resetting catalog")
	}

	batches := batchCount(len(unique), p.batchSize)
	for i := 0; i < batches; i++ {
		lo := i * p.batchSize
		hi := min(lo+p.batchSize, len(unique))
		batch := unique[lo:hi]

		if err := p.loadBatch(ctx, batch); err != nil {
			return nil, odxerr.With(
				odxerr.Wrapf(err, odxerr.CodeIngestBatchFailure, "batch %d of %d failed", i+1, batches),
				odxerr.FieldBatch(i+1))
		}

		stats.Loaded += len(batch)
		stats.Batches++
		log.Info("batch loaded", "batch", i+1, "batches", batches, "records", len(batch))
	}

	if err := p.store.BuildIndexes(ctx); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreDatabaseFailure, "building catalog indexes")
	}

	stats.Duration = time.Since(start)
	log.Info("ingest run finished",
		"loaded", stats.Loaded,
		"batches", stats.Batches,
		"duration", stats.Duration)
	return stats, nil
}

// RunFile reads a CSV feed at path and runs the pipeline over it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Stats, error) {
	records, err := catalog.ReadSourceFile(path)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, records)
}

func (p *Pipeline) loadBatch(ctx context.Context, batch []catalog.ProductRecord) error {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].EmbeddingText
	}

	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	return p.store.InsertBatch(ctx, batch, embeddings)
}

// dedupe keeps the first record seen for each link id, preserving order.
func dedupe(records []catalog.ProductRecord) []catalog.ProductRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]catalog.ProductRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.LinkID]; ok {
			continue
		}
		seen[rec.LinkID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

func batchCount(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}
