package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"
	"github.com/mallardduck/sentry-alert-tool/internal/util"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// listProjectsCmd represents the listProjects command
var listProjectsCmd = &cobra.Command{
	Use:   "listProjects",
	Short: "List all organization projects with their production environments",
	Run:   listProjectsHandler,
}

func init() {
	rootCmd.AddCommand(listProjectsCmd)
}

func listProjectsHandler(cmd *cobra.Command, _ []string) {
	cfg, client := mustClient()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println("Fetching Sentry projects...")
	projects, err := client.Projects(ctx)
	fatalIfRunFailed(err)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Project Name", "Slug", "Production Envs"})
	for idx, project := range projects {
		prodEnvs := "None"
		envs, err := client.Environments(ctx, project.Slug)
		if err != nil {
			log.Warnf("Could not fetch environments for %s: %v", project.Slug, err)
			prodEnvs = text.Color.Sprint(text.FgRed, "error")
		} else {
			envSet := util.NewSet[string]()
			for _, env := range envs {
				if !env.IsHidden {
					_ = envSet.Add(env.Name)
				}
			}
			matched := alerts.ProductionEnvironments(envSet, cfg.ExtraProductionEnvs)
			if !matched.IsEmpty() {
				prodEnvs = strings.Join(util.SortedValues(matched), ", ")
			}
		}

		t.AppendRow(table.Row{idx + 1, project.Name, project.Slug, prodEnvs})
	}
	t.Render()
	fmt.Printf("\nFound %d projects\n", len(projects))
}
