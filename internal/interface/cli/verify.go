package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/villeh/early-mcp/internal/core/config"
	"github.com/villeh/early-mcp/internal/core/earlyapi"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check credentials against the Early API",
	Long: `Sign in to the Early API with the configured credentials and report
whether they work. Useful before wiring the server into an MCP client.`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration incomplete: %w", err)
	}

	client := earlyapi.NewClient(cfg.BaseURL, cfg.APIKey, cfg.APISecret, cfg.Timeout)
	if !client.TestConnection() {
		return fmt.Errorf("sign-in to %s failed; check EARLY_API_KEY and EARLY_API_SECRET", client.BaseURL())
	}
	defer client.Logout()

	activities, err := client.ActiveActivities()
	if err != nil {
		return fmt.Errorf("authenticated but could not list activities: %w", err)
	}

	fmt.Printf("✅ Connected to %s\n", client.BaseURL())
	fmt.Printf("   %d active activities\n", len(activities))
	return nil
}
