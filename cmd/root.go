/*
Package cmd
File: root.go
Description:
    The CLI root command, grounded on acdtunes-spacetraders's
    internal/adapters/cli root command: a persistent --config flag,
    three subcommands (serve, validate-economy, migrate-save), and an
    Execute entry point main.go delegates to.
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand builds the supplyline-core root command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "supplyline-core",
		Short: "Deterministic tile-based economic simulation core",
		Long: `supplyline-core runs the economy/pathfinding/contract/transport
simulation engine described in its spec as a standalone daemon.

Examples:
  supplyline-core serve --state world.json
  supplyline-core validate-economy --fixture economy.yaml
  supplyline-core migrate-save --in old-save.json --out migrated-save.json`,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (optional; env and defaults still apply)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newValidateEconomyCommand())
	root.AddCommand(newMigrateSaveCommand())

	return root
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
