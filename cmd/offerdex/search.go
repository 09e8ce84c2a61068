// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/offerdex/offerdex/internal/catalog"
	"github.com/offerdex/offerdex/internal/engine"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by meaning",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().IntP("limit", "n", 0, "maximum number of results")
	cmd.Flags().Float64("min-epc", 0, "minimum 7-day EPC")
	cmd.Flags().String("category", "", "exact category filter")
	cmd.Flags().Bool("json", false, "output JSON instead of text")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	req := engine.SearchRequest{Query: strings.Join(args, " ")}
	req.Limit, _ = cmd.Flags().GetInt("limit")
	req.Category, _ = cmd.Flags().GetString("category")
	if cmd.Flags().Changed("min-epc") {
		minEPC, _ := cmd.Flags().GetFloat64("min-epc")
		req.MinEPC = &minEPC
	}

	eng := engine.New(st.Catalog, st.Vector, embedder, cfg.Logger())
	results, err := eng.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
	}

	if len(results) == 0 {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "No matching products.")
		return err
	}
	for i, res := range results {
		printResult(cmd, i+1, res)
	}
	return nil
}

func printResult(cmd *cobra.Command, rank int, res catalog.ProductResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d. %s", rank, deref(res.Name, "(unnamed)"))
	if res.Relevance != nil {
		fmt.Fprintf(out, "  [relevance %.3f]", *res.Relevance)
	}
	fmt.Fprintln(out)
	if res.Category != nil {
		fmt.Fprintf(out, "   category: %s\n", *res.Category)
	}
	fmt.Fprintf(out, "   epc: %.2f\n", res.EPC)
	if res.URL != nil {
		fmt.Fprintf(out, "   url: %s\n", *res.URL)
	}
	if res.Coupon != nil {
		fmt.Fprintf(out, "   coupon: %s\n", *res.Coupon)
	}
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
