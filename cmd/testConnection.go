package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"
)

// testConnectionCmd represents the testConnection command
var testConnectionCmd = &cobra.Command{
	Use:   "testConnection",
	Short: "Verify Sentry API credentials and integration availability",
	Long: `Checks that the configured auth token can reach the organization, then
reports whether Slack and Jira integrations are installed. Exits non-zero
when the organization cannot be reached.`,
	Run: testConnectionHandler,
}

func init() {
	rootCmd.AddCommand(testConnectionCmd)
}

func testConnectionHandler(cmd *cobra.Command, _ []string) {
	cfg, client := mustClient()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println("Verifying Sentry connection...")
	org, err := client.Organization(ctx)
	if err != nil {
		fmt.Println(text.Color.Sprintf(text.FgRed, "✗ Connection failed: %v", err))
		os.Exit(ExitFatal)
	}
	fmt.Println(text.Color.Sprintf(text.FgGreen, "✓ Connected to organization: %s", org.Name))

	if slack, found, err := client.FindIntegration(ctx, "slack"); err != nil {
		fmt.Println(text.Color.Sprintf(text.FgYellow, "⚠ Could not check Slack integration: %v", err))
	} else if found {
		fmt.Println(text.Color.Sprintf(text.FgGreen, "✓ Slack integration available (%s)", slack.Name))
	} else {
		fmt.Println(text.Color.Sprint(text.FgYellow, "⚠ Slack integration not installed; rules will use email notifications"))
	}

	if cfg.Jira.Enabled {
		if jira, found, err := client.FindIntegration(ctx, "jira"); err != nil {
			fmt.Println(text.Color.Sprintf(text.FgYellow, "⚠ Could not check Jira integration: %v", err))
		} else if found {
			fmt.Println(text.Color.Sprintf(text.FgGreen, "✓ Jira integration available (%s)", jira.Name))
		} else {
			fmt.Println(text.Color.Sprint(text.FgYellow, "⚠ Jira ticketing enabled but no Jira integration installed"))
		}
	}
}
