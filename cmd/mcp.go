package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arenahq/arena/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve evaluation results as MCP tools over stdio",
	Long: `Start an MCP server on stdio exposing the results store: phase progress,
report summaries, judge bias, individual result records, and run history.
Intended to be launched by an MCP client, not interactively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		srv := mcp.NewServer(a.cfg, a.manifest, a.store, a.ledger)
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
