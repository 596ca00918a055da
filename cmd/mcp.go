package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stratus-wx/stratus/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Stratus MCP server",
	Long:  `Launch an MCP server that lets AI agents request ensemble forecasts, model comparisons and weather timelines via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal output when running in MCP mode to avoid
		// polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
