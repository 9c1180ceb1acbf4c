package syncalerts

import (
	"fmt"
	"os"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"

	"gopkg.in/yaml.v3"
)

// PlanFile is the on-disk shape of a saved preview plan.
type PlanFile struct {
	Mode     alerts.Mode             `yaml:"mode"`
	Projects []alerts.ProjectOutcome `yaml:"projects"`
}

// SavePlanYaml writes the computed plan to a YAML file so a preview can be
// reviewed (or diffed against a later one) before applying.
func SavePlanYaml(summary Summary, path string) error {
	// Only projects with something to say make it into the file.
	planned := make([]alerts.ProjectOutcome, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		if len(outcome.Decisions) > 0 || outcome.Failed {
			planned = append(planned, outcome)
		}
	}

	yamlData, err := yaml.Marshal(PlanFile{Mode: summary.Mode, Projects: planned})
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	if err := os.WriteFile(path, yamlData, 0644); err != nil {
		return fmt.Errorf("writing plan to %s: %w", path, err)
	}
	return nil
}
