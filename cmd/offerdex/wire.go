// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/offerdex/offerdex/internal/config"
	"github.com/offerdex/offerdex/internal/provider"
	openaiprov "github.com/offerdex/offerdex/internal/provider/openai"
	"github.com/offerdex/offerdex/internal/store"
	"github.com/offerdex/offerdex/internal/store/sqlite"
	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// loadConfig resolves the --config flag and loads configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	return config.Load(cfgPath)
}

func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		Path:             cfg.Database.Path,
		VectorDimensions: cfg.Provider.Dimensions,
	}
}

// openStore opens the catalog database configured in cfg.
func openStore(cfg *config.Config) (*sqlite.Store, error) {
	st, err := sqlite.Open(storeConfig(cfg))
	if err != nil {
		return nil, odxerr.Wrap(err, odxerr.CodeCLISetupFailure, "opening catalog database")
	}
	return st, nil
}

// newEmbedder builds the embedding client configured in cfg. The API key is
// required here, not at config load, so read-only commands work without one.
func newEmbedder(cfg *config.Config) (provider.Embedder, error) {
	return openaiprov.New(openaiprov.Config{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		Model:      cfg.Provider.Model,
		Dimensions: cfg.Provider.Dimensions,
		Timeout:    cfg.Provider.Timeout(),
	})
}
