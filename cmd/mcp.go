package cmd

import (
	"github.com/celerio/scout/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the scout MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents diagnose and score
companies through the diagnose_company and score_company tools.

Logs go to stderr so they never interleave with the protocol on stdout.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, version, logger)
	},
}
