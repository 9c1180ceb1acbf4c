package cmd

import (
	"context"
	"fmt"

	"github.com/mallardduck/sentry-alert-tool/internal/cmd/coveragestats"

	"github.com/jedib0t/go-pretty/text"
	"github.com/spf13/cobra"
)

// coverageStatsCmd represents the coverageStats command
var coverageStatsCmd = &cobra.Command{
	Use:   "coverageStats",
	Short: "Report alert-rule coverage statistics across the organization",
	Long: `Reads every project's environments and alert rules without writing
anything, then reports how many projects are fully covered by managed
escalating-issue rules, which ones still need alerts, and any stale managed
rules whose environment is no longer production-like.`,
	Run: coverageStatsHandler,
}

func init() {
	rootCmd.AddCommand(coverageStatsCmd)
}

func coverageStatsHandler(cmd *cobra.Command, _ []string) {
	cfg, client := mustClient()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println(
		text.AlignCenter.Apply(
			text.Color.Sprint(text.FgBlue, "Gathering alert coverage statistics..."),
			75,
		),
	)

	summary, err := coveragestats.Run(ctx, client, cfg)
	fatalIfRunFailed(err)
	exitForSummary(summary)
}
