// Package cmd defines the command-line interface for stratus.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64("lat", 0, "Latitude in decimal degrees")
	rootCmd.PersistentFlags().Float64("lon", 0, "Longitude in decimal degrees")
	rootCmd.PersistentFlags().String("as-of", "", "Anchor instant in RFC3339 (defaults to now)")
	rootCmd.PersistentFlags().String("back", contract.DefaultLookBack.String(), "History window before the anchor (duration)")
	rootCmd.PersistentFlags().String("ahead", contract.DefaultLookAhead.String(), "Forecast horizon after the anchor (duration)")
	rootCmd.PersistentFlags().String("step", contract.DefaultGridStep.String(), "Canonical grid step (duration)")
	rootCmd.PersistentFlags().String("max-gap", contract.DefaultMaxGap.String(), "Largest observation gap to interpolate across (duration)")
	rootCmd.PersistentFlags().String("sources", "", "Comma-separated source list: aifs, graphcast, meteosat (default all)")
	rootCmd.PersistentFlags().Bool("offline", false, "Use deterministic local generators instead of the network")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Run store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of timelineCmd to Viper
	timelineCmd.Flags().String("forecast-source", schema.SourceAIFS, "Forecast model for the future segment: aifs or graphcast")
	timelineCmd.Flags().Bool("align", false, "Resample the merged timeline onto the canonical grid")
	if err := viper.BindPFlags(timelineCmd.Flags()); err != nil {
		contract.LogFatal("Error binding timeline flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
