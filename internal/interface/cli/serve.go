package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/villeh/early-mcp/cmd/early-mcp/mcp"
	"github.com/villeh/early-mcp/internal/core/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start the MCP server over stdio",
	Long: `Start an MCP (Model Context Protocol) server that lets an MCP client
start and stop Early timers, manage time entries and activities, and
generate reports.

Configure in Claude Desktop's config file (~/.config/claude/config.json):
  {
    "mcpServers": {
      "early": {
        "command": "early-mcp",
        "args": ["serve-mcp"],
        "env": {
          "EARLY_API_KEY": "...",
          "EARLY_API_SECRET": "..."
        }
      }
    }
  }

The server starts without credentials; tool calls report what is missing.
`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := mcp.StartServer(cfg, serverVersion); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
