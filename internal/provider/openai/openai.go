// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package openai

import (
	"context"
	"errors"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/offerdex/offerdex/internal/provider"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// Compile-time interface check.
var _ provider.Embedder = (*Embedder)(nil)

// Config holds OpenAI embedding client configuration.
type Config struct {
	APIKey     string
	BaseURL    string        // optional, useful for testing against a mock server
	Model      string        // defaults to text-embedding-3-small
	Dimensions int           // expected vector width; defaults to 1536
	Timeout    time.Duration // per-call deadline; defaults to 30s
}

// Embedder implements provider.Embedder using the OpenAI Embeddings API.
// Calls are never retried here; a failed or timed-out request surfaces to
// the caller as a provider error.
type Embedder struct {
	client     openaisdk.Client
	model      openaisdk.EmbeddingModel
	dimensions int
	timeout    time.Duration
}

// New creates a new OpenAI embedder. Returns an error if the API key is
// missing.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, odxerr.New(odxerr.CodeProviderConfigInvalid, "openai: missing api_key in config")
	}
	if cfg.Model == "" {
		cfg.Model = string(openaisdk.EmbeddingModelTextEmbedding3Small)
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1536
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// The engine owns retry policy; the SDK must not retry underneath it.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Embedder{
		client:     openaisdk.NewClient(opts...),
		model:      openaisdk.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
	}, nil
}

// Embed converts one text into a vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.request(ctx, openaisdk.EmbeddingNewParamsInputUnion{
		OfString: openaisdk.String(text),
	}, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch converts texts into vectors in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.request(ctx, openaisdk.EmbeddingNewParamsInputUnion{
		OfArrayOfStrings: texts,
	}, len(texts))
}

func (e *Embedder) request(ctx context.Context, input openaisdk.EmbeddingNewParamsInputUnion, want int) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: input,
		Model: e.model,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, odxerr.Wrap(err, odxerr.CodeProviderEmbedTimeout, "embedding request timed out")
		}
		return nil, odxerr.Wrap(err, odxerr.CodeProviderEmbedFailure, "embedding request failed")
	}

	if len(resp.Data) != want {
		return nil, odxerr.Errorf(odxerr.CodeProviderEmbedInvalid,
			"provider returned %d embeddings, want %d", len(resp.Data), want)
	}

	vectors := make([][]float32, want)
	for _, item := range resp.Data {
		idx := int(item.Index)
		if idx < 0 || idx >= want {
			return nil, odxerr.Errorf(odxerr.CodeProviderEmbedInvalid,
				"provider returned embedding with index %d outside batch of %d", idx, want)
		}
		if len(item.Embedding) != e.dimensions {
			return nil, odxerr.Errorf(odxerr.CodeProviderEmbedInvalid,
				"provider returned %d-dimensional embedding, want %d", len(item.Embedding), e.dimensions)
		}
		vectors[idx] = toFloat32(item.Embedding)
	}
	for i, v := range vectors {
		if v == nil {
			return nil, odxerr.Errorf(odxerr.CodeProviderEmbedInvalid,
				"provider response is missing embedding %d", i)
		}
	}

	return vectors, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
