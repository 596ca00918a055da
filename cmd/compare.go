package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stratus-wx/stratus/core"
	"github.com/stratus-wx/stratus/internal/contract"
)

// compareCmd shows sources side by side with agreement scoring.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare forecast models side by side with agreement scoring.",
	Long: `Fetch every selected source and show their aligned values next to each
other instead of blending them, with a per-instant agreement score.

Useful when the models disagree and you want to see who is the outlier
before trusting the ensemble number.

Examples:
  # Compare all models for Lisbon
  stratus compare --lat 38.72 --lon -9.14

  # Just the two AI models over the next two days
  stratus compare --lat 38.72 --lon -9.14 --sources aifs,graphcast --ahead 48h

  # Machine-readable comparison for plotting
  stratus compare --lat 38.72 --lon -9.14 --output csv --output-file compare.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, newRegistry(), runStore); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
