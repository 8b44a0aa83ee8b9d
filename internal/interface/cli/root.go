package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	versionInfo   string
	serverVersion = "dev"
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	serverVersion = version
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "early-mcp",
	Short: "MCP server for the Early time tracker",
	Long: `early-mcp - control Early time tracking from MCP clients

Exposes timers, time entries, activities, and reports from the Early
(formerly Timeular) API as MCP tools and resources over stdio.

Credentials come from the environment:
  EARLY_API_KEY      API key from the Early app (Settings > API)
  EARLY_API_SECRET   API secret for the same key
  EARLY_BASE_URL     Override the API base URL (optional)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to serving MCP if no subcommand specified
		return serveCmd.RunE(cmd, args)
	},
}
