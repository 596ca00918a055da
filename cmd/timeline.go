package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stratus-wx/stratus/core"
	"github.com/stratus-wx/stratus/internal/contract"
)

// timelineCmd stitches history and forecast into one continuous view.
var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Stitch satellite history and a model forecast into one timeline.",
	Long: `Merge recent satellite-derived observations with a forecast model into a
single continuous sequence around the anchor instant. Everything before the
anchor is observed history, everything at or after it is forecast.

The merged sequence keeps each segment's native cadence; pass --align to
resample it onto the canonical grid.

Examples:
  # Yesterday plus the next three days for Oslo
  stratus timeline --lat 59.91 --lon 10.75

  # Use GraphCast for the future segment
  stratus timeline --lat 59.91 --lon 10.75 --forecast-source graphcast

  # Uniform hourly rows instead of mixed cadences
  stratus timeline --lat 59.91 --lon 10.75 --align`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTimeline(rootCtx, cfg, newRegistry(), runStore); err != nil {
			contract.LogFatal("Cannot run timeline", err)
		}
	},
}
