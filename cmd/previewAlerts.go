package cmd

import (
	"context"
	"fmt"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"
	"github.com/mallardduck/sentry-alert-tool/internal/cmd/syncalerts"

	"github.com/jedib0t/go-pretty/text"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	previewUpdateMode bool
	previewProjects   []string
	previewOutFile    string
)

// previewAlertsCmd represents the previewAlerts command
var previewAlertsCmd = &cobra.Command{
	Use:   "previewAlerts",
	Short: "Show which alert rules a sync would create or update, without writing",
	Long: `Computes the full reconciliation plan against the live organization state
and renders it; no create or update calls are performed. Use --out to save
the plan as YAML for review.`,
	Run: previewAlertsHandler,
}

func init() {
	previewAlertsCmd.Flags().BoolVarP(&previewUpdateMode, "update", "u", false, "Preview create-and-update mode instead of create-only")
	previewAlertsCmd.Flags().StringSliceVarP(&previewProjects, "projects", "p", nil, "Restrict the preview to the given project slugs")
	previewAlertsCmd.Flags().StringVarP(&previewOutFile, "out", "o", "", "Save the computed plan to a YAML file")
	rootCmd.AddCommand(previewAlertsCmd)
}

func previewAlertsHandler(cmd *cobra.Command, _ []string) {
	cfg, client := mustClient()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mode := alerts.CreateOnly
	if previewUpdateMode {
		mode = alerts.CreateAndUpdate
	}

	fmt.Println(
		text.AlignCenter.Apply(
			text.Color.Sprintf(text.FgBlue, "Previewing alert sync (%s) — no changes will be made", mode),
			75,
		),
	)

	summary, err := syncalerts.Run(ctx, client, cfg, syncalerts.Options{
		Mode:     mode,
		DryRun:   true,
		Projects: previewProjects,
	})
	fatalIfRunFailed(err)

	syncalerts.RenderSummary(summary)

	if previewOutFile != "" {
		if err := syncalerts.SavePlanYaml(summary, previewOutFile); err != nil {
			log.Error(err)
		} else {
			fmt.Printf("\nThe plan is saved at: %s\n", previewOutFile)
		}
	}

	exitForSummary(summary)
}
