// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root offerdex command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "offerdex",
		Short:         "Offerdex — affiliate product catalog search",
		Long:          "Offerdex ingests affiliate product feeds into a searchable catalog and answers semantic and aggregate queries over it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")

	root.AddCommand(
		newIngestCmd(),
		newSearchCmd(),
		newCategoriesCmd(),
		newTopCmd(),
		newStatsCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}
