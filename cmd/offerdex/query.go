// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/offerdex/offerdex/internal/engine"
	"github.com/offerdex/offerdex/internal/store/sqlite"
)

// withCatalog loads config, opens the store, and runs fn with an engine
// that has no embedder wired. Aggregate queries never embed anything.
func withCatalog(cmd *cobra.Command, fn func(*engine.Engine) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func(st *sqlite.Store) { _ = st.Close() }(st)

	return fn(engine.New(st.Catalog, st.Vector, nil, cfg.Logger()))
}

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with product counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(eng *engine.Engine) error {
				cats, err := eng.Categories(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(cats)
				}
				for _, c := range cats {
					fmt.Fprintf(cmd.OutOrStdout(), "%6d  %s\n", c.ProductCount, c.Category)
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "output JSON instead of text")
	return cmd
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List products with the highest 7-day EPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(eng *engine.Engine) error {
				category, _ := cmd.Flags().GetString("category")
				limit, _ := cmd.Flags().GetInt("limit")

				products, err := eng.TopProducts(cmd.Context(), category, limit)
				if err != nil {
					return err
				}
				if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(products)
				}
				for i, res := range products {
					printResult(cmd, i+1, res)
				}
				return nil
			})
		},
	}
	cmd.Flags().String("category", "", "exact category filter")
	cmd.Flags().IntP("limit", "n", 0, "maximum number of results")
	cmd.Flags().Bool("json", false, "output JSON instead of text")
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog-wide aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, func(eng *engine.Engine) error {
				stats, err := eng.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "products:      %d\n", stats.TotalProducts)
				fmt.Fprintf(out, "categories:    %d\n", stats.Categories)
				fmt.Fprintf(out, "average epc:   %.2f\n", stats.AverageEPC)
				fmt.Fprintf(out, "with coupons:  %d\n", stats.ProductsWithCoupons)
				if len(stats.TopCategories) > 0 {
					fmt.Fprintln(out, "top categories:")
					for _, c := range stats.TopCategories {
						fmt.Fprintf(out, "  %6d  %s\n", c.ProductCount, c.Category)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "output JSON instead of text")
	return cmd
}
