package cmd

import (
	"context"
	"fmt"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"
	"github.com/mallardduck/sentry-alert-tool/internal/cmd/syncalerts"

	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"
)

var (
	syncUpdateMode bool
	syncProjects   []string
	syncWorkers    int
)

// syncAlertsCmd represents the syncAlerts command
var syncAlertsCmd = &cobra.Command{
	Use:   "syncAlerts",
	Short: "Create (and optionally update) escalating-issue alert rules for all projects",
	Long: `Reconciles every project's alert rules against the desired set: one
"Escalating Issues - {environment}" rule per production-like environment.

By default the sync is create-only: projects that already have a managed rule
for an environment are skipped. With --update, existing managed rules are
overwritten with the current desired shape. Rules not created by this tool
are never touched.

A failure in one project never stops the others; failed projects are listed
in the summary and the command exits with status 2.`,
	Run: syncAlertsHandler,
}

func init() {
	syncAlertsCmd.Flags().BoolVarP(&syncUpdateMode, "update", "u", false, "Also overwrite existing managed rules (create-and-update mode)")
	syncAlertsCmd.Flags().StringSliceVarP(&syncProjects, "projects", "p", nil, "Restrict the sync to the given project slugs")
	syncAlertsCmd.Flags().IntVarP(&syncWorkers, "workers", "w", 1, "Number of projects to reconcile concurrently")
	rootCmd.AddCommand(syncAlertsCmd)
}

func syncAlertsHandler(cmd *cobra.Command, _ []string) {
	cfg, client := mustClient()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mode := alerts.CreateOnly
	if syncUpdateMode {
		mode = alerts.CreateAndUpdate
	}

	fmt.Println(
		text.AlignCenter.Apply(
			text.Color.Sprintf(text.FgBlue, "Syncing escalating-issue alerts (%s)...", mode),
			75,
		),
	)

	summary, err := syncalerts.Run(ctx, client, cfg, syncalerts.Options{
		Mode:     mode,
		Projects: syncProjects,
		Workers:  syncWorkers,
	})
	fatalIfRunFailed(err)

	syncalerts.RenderSummary(summary)
	exitForSummary(summary)
}
