package alerts

import (
	"github.com/mallardduck/sentry-alert-tool/internal/sentry"
)

// ProjectOutcome is the per-project record a run produces; the orchestrator
// fills it in and Summarize aggregates it. A failed project keeps whatever
// partial counts it reached before the error.
type ProjectOutcome struct {
	Project        sentry.Project `yaml:"project"`
	ProductionEnvs []string       `yaml:"production_envs"`

	// ManagedCount is the number of managed rules found on the project.
	ManagedCount int `yaml:"managed_count"`
	// StaleEnvs lists managed rules whose environment the project no longer
	// reports as production-like; they will be recreated under a new name if
	// the environment comes back, so they are surfaced rather than hidden.
	StaleEnvs []string `yaml:"stale_envs,omitempty"`

	Decisions []Decision `yaml:"decisions,omitempty"`

	Created int `yaml:"created"`
	Skipped int `yaml:"skipped"`
	Updated int `yaml:"updated"`

	Failed       bool   `yaml:"failed"`
	ErrorKind    string `yaml:"error_kind,omitempty"`
	ErrorMessage string `yaml:"error_message,omitempty"`
}

// PendingCreates reports how many desired rules still have no managed
// counterpart after the run.
func (o ProjectOutcome) PendingCreates() int {
	pending := 0
	for _, decision := range o.Decisions {
		if decision.Action == ActionCreate {
			pending++
		}
	}
	pending -= o.Created
	if pending < 0 {
		pending = 0
	}
	return pending
}

// Stats is the run-level aggregation shown to the operator.
type Stats struct {
	TotalProjects             int
	ProjectsCovered           int
	ProjectsNeedingAlerts     int
	ProjectsWithoutProduction int
	ProjectsFailed            int

	ManagedRules int
	StaleRules   int

	Created int
	Skipped int
	Updated int
	Failed  int
}

// Summarize aggregates per-project outcomes into run statistics. Pure
// function, no I/O.
func Summarize(outcomes []ProjectOutcome) Stats {
	stats := Stats{TotalProjects: len(outcomes)}

	for _, outcome := range outcomes {
		stats.Created += outcome.Created
		stats.Skipped += outcome.Skipped
		stats.Updated += outcome.Updated
		stats.ManagedRules += outcome.ManagedCount
		stats.StaleRules += len(outcome.StaleEnvs)

		switch {
		case outcome.Failed:
			stats.ProjectsFailed++
			stats.Failed++
		case len(outcome.ProductionEnvs) == 0:
			stats.ProjectsWithoutProduction++
		case outcome.PendingCreates() > 0:
			stats.ProjectsNeedingAlerts++
		default:
			stats.ProjectsCovered++
		}
	}

	return stats
}

// CoveragePercent returns the share of projects with production environments
// that are fully covered, as a 0-100 value.
func (s Stats) CoveragePercent() float64 {
	eligible := s.ProjectsCovered + s.ProjectsNeedingAlerts
	if eligible == 0 {
		return 0
	}
	return float64(s.ProjectsCovered) / float64(eligible) * 100
}
