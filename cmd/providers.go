package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stratus-wx/stratus/schema"
)

// providersCmd lists the configured data sources.
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the configured weather data sources.",
	Long: `Show each selected source with its kind (historical or forecast), its
ensemble weight, and whether it is served from the network or generated
locally.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		reg := newRegistry()
		cmd.Printf("%-12s %-12s %-8s %s\n", "SOURCE", "KIND", "WEIGHT", "ORIGIN")
		for _, c := range reg.Clients() {
			origin := "network"
			if cfg.Offline || c.ID() == schema.SourceMeteosat {
				origin = "generated"
			}
			cmd.Printf("%-12s %-12s %-8.2f %s\n", c.ID(), c.Kind(), cfg.Ensemble.Weights[c.ID()], origin)
		}
	},
}
