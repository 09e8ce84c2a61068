// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package provider

import (
	"context"
	"time"

	"github.com/offerdex/offerdex/pkg/health"
)

var _ Embedder = (*TrackedEmbedder)(nil)

// TrackedEmbedder wraps an Embedder and records call outcomes in a health
// tracker so operators can see provider availability.
type TrackedEmbedder struct {
	inner   Embedder
	tracker *health.Tracker
}

// WithHealth wraps an embedder with outcome tracking. Failures mark the
// provider unavailable for the cooldown period.
func WithHealth(inner Embedder, cooldown time.Duration) *TrackedEmbedder {
	return &TrackedEmbedder{inner: inner, tracker: health.NewTracker(cooldown)}
}

func (t *TrackedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := t.inner.Embed(ctx, text)
	t.record(err)
	return vec, err
}

func (t *TrackedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := t.inner.EmbedBatch(ctx, texts)
	t.record(err)
	return vecs, err
}

// Health returns the current provider health snapshot.
func (t *TrackedEmbedder) Health() health.Metrics {
	return t.tracker.Snapshot()
}

func (t *TrackedEmbedder) record(err error) {
	if err != nil {
		t.tracker.RecordFailure()
		return
	}
	t.tracker.RecordSuccess()
}
