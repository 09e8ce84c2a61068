// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/provider"
	"github.com/offerdex/offerdex/internal/store"
	"github.com/offerdex/offerdex/internal/store/sqlite"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// BuildAndSwap loads records into a scratch database next to cfg.Path and
// renames it over the live file once the run succeeds. Readers of the old
// file keep their snapshot; new opens see the rebuilt catalog. On failure
// the scratch file is removed and the live file is untouched.
func BuildAndSwap(ctx context.Context, cfg store.Config, embedder provider.Embedder, icfg Config, logger *slog.Logger, records []catalog.ProductRecord) (*Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scratch := filepath.Join(filepath.Dir(cfg.Path),
		fmt.Sprintf(".%s.build-%s", filepath.Base(cfg.Path), uuid.NewString()[:8]))
	defer func() { _ = os.Remove(scratch) }()

	scratchCfg := cfg
	scratchCfg.Path = scratch
	st, err := sqlite.Open(scratchCfg)
	if err != nil {
		return nil, err
	}

	stats, runErr := New(st, embedder, icfg, logger).Run(ctx, records)
	closeErr := st.Close()
	if runErr != nil {
		return nil, runErr
	}
	if closeErr != nil {
		return nil, odxerr.Wrap(closeErr, odxerr.CodeStoreSwapFailure, "closing scratch catalog")
	}

	if err := os.Rename(scratch, cfg.Path); err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeStoreSwapFailure, "swapping catalog into place")
	}

	logger.Info("catalog swapped", "path", cfg.Path, "loaded", stats.Loaded)
	return stats, nil
}
