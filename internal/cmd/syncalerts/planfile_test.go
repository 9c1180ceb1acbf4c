package syncalerts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"
	"github.com/mallardduck/sentry-alert-tool/internal/sentry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSavePlanYaml(t *testing.T) {
	summary := Summary{
		Mode: alerts.CreateOnly,
		Outcomes: []alerts.ProjectOutcome{
			{
				Project:        sentry.Project{Slug: "user-service", Name: "User Service"},
				ProductionEnvs: []string{"production"},
				Decisions: []alerts.Decision{
					{Environment: "production", RuleName: "Escalating Issues - production", Action: alerts.ActionCreate},
				},
			},
			{
				// No decisions and no failure: stays out of the plan file.
				Project: sentry.Project{Slug: "sandbox"},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, SavePlanYaml(summary, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var plan PlanFile
	require.NoError(t, yaml.Unmarshal(data, &plan))
	assert.Equal(t, alerts.CreateOnly, plan.Mode)
	require.Len(t, plan.Projects, 1)
	assert.Equal(t, "user-service", plan.Projects[0].Project.Slug)
	require.Len(t, plan.Projects[0].Decisions, 1)
	assert.Equal(t, alerts.ActionCreate, plan.Projects[0].Decisions[0].Action)
}
