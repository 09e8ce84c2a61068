// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package provider defines the embedding-provider boundary. The engine and
// the ingestion pipeline consume this interface; the concrete client lives
// in a subpackage.
package provider

import "context"

// Embedder converts text into fixed-dimension vectors. Both calls are
// fallible and carry provider error codes distinct from engine errors;
// embedding the same text twice is safe.
type Embedder interface {
	// Embed converts one text into a vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts into vectors, one per input, in input
	// order. Used by the ingestion pipeline to respect provider batch
	// limits.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
