package syncalerts

import (
	"fmt"
	"os"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

// RenderSummary prints the run results: one row per project with activity,
// then the aggregate counts, then the failure detail the operator needs to
// chase down per-project errors.
func RenderSummary(summary Summary) {
	verb := "Applied"
	if summary.DryRun {
		verb = "Proposed"
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Project", "Production Envs", "Created", "Skipped", "Updated", "Status"})
	for _, outcome := range summary.Outcomes {
		if len(outcome.ProductionEnvs) == 0 && !outcome.Failed {
			continue
		}

		status := "ok"
		created := outcome.Created
		updated := outcome.Updated
		skipped := outcome.Skipped
		if summary.DryRun {
			created, skipped, updated = countDecisions(outcome.Decisions)
		}
		if outcome.Failed {
			status = fmt.Sprintf("failed (%s)", outcome.ErrorKind)
		}

		t.AppendRow(table.Row{
			outcome.Project.Slug,
			len(outcome.ProductionEnvs),
			created,
			skipped,
			updated,
			status,
		})
	}
	t.Render()

	stats := summary.Stats
	if summary.DryRun {
		proposedCreates, proposedSkips, proposedUpdates := 0, 0, 0
		for _, outcome := range summary.Outcomes {
			c, s, u := countDecisions(outcome.Decisions)
			proposedCreates += c
			proposedSkips += s
			proposedUpdates += u
		}
		fmt.Printf("\n%s: %d creates, %d updates (%d already covered), %d projects failed\n",
			verb, proposedCreates, proposedUpdates, proposedSkips, stats.ProjectsFailed)
	} else {
		fmt.Printf("\n%s: %d created, %d skipped, %d updated, %d failed\n",
			verb, stats.Created, stats.Skipped, stats.Updated, stats.Failed)
	}

	renderFailures(summary.Outcomes)
}

func countDecisions(decisions []alerts.Decision) (creates, skips, updates int) {
	for _, decision := range decisions {
		switch decision.Action {
		case alerts.ActionCreate:
			creates++
		case alerts.ActionSkip:
			skips++
		case alerts.ActionUpdate:
			updates++
		}
	}
	return creates, skips, updates
}

func renderFailures(outcomes []alerts.ProjectOutcome) {
	failed := false
	for _, outcome := range outcomes {
		if !outcome.Failed {
			continue
		}
		if !failed {
			fmt.Println()
			failed = true
		}
		fmt.Println(
			text.Color.Sprintf(text.FgRed, "✗ %s [%s]: %s",
				outcome.Project.Slug, outcome.ErrorKind, outcome.ErrorMessage),
		)
	}
}
