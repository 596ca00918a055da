package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/internal/outwriter"
	"github.com/stratus-wx/stratus/internal/parquet"
	"github.com/stratus-wx/stratus/internal/runstore"
)

// runsCmd is the parent command for run store operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect and manage persisted forecast runs.",
	Long: `Every forecast run is persisted to the run store with its ensemble
points, so past runs can be listed, exported and compared. These
subcommands manage that store.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// runsStatusCmd lists the stored runs.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List persisted forecast runs, newest first.",
	Long: `Show the stored run records: location, window anchor, contributing
sources, point count and aggregate agreement.

Examples:
  # Latest runs as a table
  stratus runs status

  # Full records as JSON
  stratus runs status --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := runStore.ListRuns(rootCtx, 25)
		if err != nil {
			contract.LogFatal("Cannot list runs", err)
		}
		if err := outwriter.PrintRuns(cfg, runs); err != nil {
			contract.LogFatal("Cannot print runs", err)
		}
	},
}

// runsClearCmd deletes all stored runs.
var runsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete all persisted runs and their points.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		n, err := runStore.ClearRuns(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot clear runs", err)
		}
		cmd.Printf("Cleared %d run(s)\n", n)
	},
}

// runsExportCmd exports stored data to Parquet.
var runsExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export persisted runs or one run's points to Parquet.",
	Long: `Without arguments, export all run records to a Parquet file. With a
run ID, export that run's ensemble points instead.

Examples:
  # All run records
  stratus runs export --output-file runs.parquet

  # One run's ensemble points
  stratus runs export 4f7c1c96-... --output-file points.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) == 1 {
			points, err := runStore.GetRunPoints(rootCtx, args[0])
			if err != nil {
				contract.LogFatal("Cannot load run points", err)
			}
			if len(points) == 0 {
				contract.LogFatal("Cannot export run", fmt.Errorf("no points found for run %s", args[0]))
			}
			if err := parquet.WritePointsFile(cfg.OutputFile, points); err != nil {
				contract.LogFatal("Cannot export run points", err)
			}
			return
		}

		runs, err := runStore.ListRuns(rootCtx, 0)
		if err != nil {
			contract.LogFatal("Cannot list runs", err)
		}
		if err := parquet.WriteRunsFile(cfg.OutputFile, runs); err != nil {
			contract.LogFatal("Cannot export runs", err)
		}
	},
}

// runsMigrateCmd runs schema migrations on the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the run store database.",
	Long: `Apply or roll back the run store schema migrations.

Examples:
  # Migrate to the latest version
  stratus runs migrate

  # Roll everything back
  stratus runs migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.StoreBackend, cfg.StoreDBConnect, target); err != nil {
			contract.LogFatal("Cannot migrate run store", err)
		}
	},
}
