package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Starts an MCP (Model Context Protocol) server exposing phaseline's WBS
status, task listing, and worker suggestion as tools for AI assistants.
Delegation is not exposed; it stays behind the CLI confirmation prompt.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := WBSMgr.Load(); err != nil {
		return err
	}
	server := mcp.NewServer(WBSMgr, Suggester, appVersion)
	return server.Run(cmd.Context())
}
