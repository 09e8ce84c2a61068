// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <feed.csv>",
		Short: "Rebuild the catalog from an affiliate feed",
		Long:  "Read a CSV affiliate feed, embed every product, and replace the catalog database atomically.",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().Int("batch-size", 0, "override embedding batch size")
	cmd.Flags().Bool("in-place", false, "load into the live database instead of building a scratch copy and swapping it in")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cfg.Logger()

	if n, _ := cmd.Flags().GetInt("batch-size"); n > 0 {
		cfg.Ingest.BatchSize = n
	}

	records, err := catalog.ReadSourceFile(args[0])
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	icfg := ingest.Config{BatchSize: cfg.Ingest.BatchSize}

	var stats *ingest.Stats
	if inPlace, _ := cmd.Flags().GetBool("in-place"); inPlace {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		stats, err = ingest.New(st, embedder, icfg, logger).Run(cmd.Context(), records)
		if err != nil {
			return err
		}
	} else {
		stats, err = ingest.BuildAndSwap(cmd.Context(), storeConfig(cfg), embedder, icfg, logger, records)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"Loaded %d products (%d rows read, %d duplicates dropped, %d batches) in %s\n",
		stats.Loaded, stats.Rows, stats.Duplicates, stats.Batches, stats.Duration.Round(time.Millisecond))
	return err
}
