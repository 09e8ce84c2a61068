// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/store"
	"github.com/offerdex/offerdex/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

const testDims = 3

// openStore opens a fresh 3-dimensional store in a temp directory.
func openStore(t *testing.T, name string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(store.Config{
		Path:             filepath.Join(t.TempDir(), name+".db"),
		VectorDimensions: testDims,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strptr(s string) *string { return &s }

// record builds a minimal product with the given id, category, and raw EPC.
// Empty category and epc mean absent.
func record(id, category, epc string) catalog.ProductRecord {
	rec := catalog.ProductRecord{
		LinkID: id,
		Name:   strptr("Product " + id),
	}
	if category != "" {
		rec.Category = &category
	}
	if epc != "" {
		rec.EPC7Day = catalog.EPCText(epc)
	}
	rec.EmbeddingText = rec.BuildEmbeddingText()
	return rec
}

// vecs returns one arbitrary unit-ish vector per record.
func vecs(n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i + 1), 1.0, 0.0}
	}
	return out
}
