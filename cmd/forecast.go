package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stratus-wx/stratus/core"
	"github.com/stratus-wx/stratus/internal/contract"
)

// forecastCmd builds the weighted ensemble forecast.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Blend all sources into one weighted ensemble forecast.",
	Long: `Fetch every selected source, harmonize them onto the canonical time grid,
and blend them into a single weighted ensemble forecast.

Each grid point carries the weighted mean, the spread (variance) across
models, and the number of sources that contributed, so you can see both the
consensus value and how much to trust it.

Examples:
  # Ensemble forecast for Berlin, next 3 days
  stratus forecast --lat 52.52 --lon 13.41

  # Shorter horizon, finer grid
  stratus forecast --lat 52.52 --lon 13.41 --ahead 24h --step 30m

  # Only the AI models, without satellite history
  stratus forecast --lat 52.52 --lon 13.41 --sources aifs,graphcast

  # Export the ensemble points for downstream analytics
  stratus forecast --lat 52.52 --lon 13.41 --output parquet --output-file berlin.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(rootCtx, cfg, newRegistry(), runStore); err != nil {
			contract.LogFatal("Cannot run forecast", err)
		}
	},
}
