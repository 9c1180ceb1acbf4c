package coveragestats

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"
	"github.com/mallardduck/sentry-alert-tool/internal/cmd/syncalerts"
	"github.com/mallardduck/sentry-alert-tool/internal/config"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

// Run computes coverage statistics by planning a create-only run without
// writing anything, then rendering the aggregate picture.
func Run(ctx context.Context, api syncalerts.SentryAPI, cfg config.Config) (syncalerts.Summary, error) {
	summary, err := syncalerts.Run(ctx, api, cfg, syncalerts.Options{
		Mode:   alerts.CreateOnly,
		DryRun: true,
	})
	if err != nil {
		return summary, err
	}

	RenderStats(summary)
	return summary, nil
}

// RenderStats prints the coverage table plus the projects still needing
// alerts and any stale managed rules.
func RenderStats(summary syncalerts.Summary) {
	stats := summary.Stats

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Metric", "Count", "Percentage"})
	t.AppendRow(table.Row{"Total Projects", stats.TotalProjects, "100%"})
	t.AppendRow(table.Row{"Projects Fully Covered", stats.ProjectsCovered, fmt.Sprintf("%.1f%%", stats.CoveragePercent())})
	t.AppendRow(table.Row{"Projects Needing Alerts", stats.ProjectsNeedingAlerts, ""})
	t.AppendRow(table.Row{"Projects Without Production Envs", stats.ProjectsWithoutProduction, ""})
	t.AppendRow(table.Row{"Projects Failed", stats.ProjectsFailed, ""})
	t.AppendRow(table.Row{"Managed Alert Rules", stats.ManagedRules, ""})
	t.AppendRow(table.Row{"Stale Managed Rules", stats.StaleRules, ""})
	t.Render()

	renderNeedingAlerts(summary)
	renderStaleRules(summary)
}

func renderNeedingAlerts(summary syncalerts.Summary) {
	var needing []alerts.ProjectOutcome
	for _, outcome := range summary.Outcomes {
		if !outcome.Failed && outcome.PendingCreates() > 0 {
			needing = append(needing, outcome)
		}
	}
	if len(needing) == 0 {
		fmt.Println(text.Color.Sprint(text.FgGreen, "\nAll projects with production environments have escalating-issue alerts."))
		return
	}

	fmt.Println(text.Color.Sprintf(text.FgYellow, "\nProjects needing alerts (%d):", len(needing)))
	for _, outcome := range needing {
		fmt.Printf("  • %s (%s)\n", outcome.Project.Slug, strings.Join(outcome.ProductionEnvs, ", "))
	}
	fmt.Println("\nRun `sentry-alert-tool syncAlerts` to create alerts for these projects.")
}

func renderStaleRules(summary syncalerts.Summary) {
	printed := false
	for _, outcome := range summary.Outcomes {
		if len(outcome.StaleEnvs) == 0 {
			continue
		}
		if !printed {
			fmt.Println(text.Color.Sprint(text.FgYellow, "\nStale managed rules (environment no longer production-like):"))
			printed = true
		}
		for _, env := range outcome.StaleEnvs {
			fmt.Printf("  • %s: %s\n", outcome.Project.Slug, alerts.RuleName(env))
		}
	}
}
