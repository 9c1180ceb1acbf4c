package alerts

import (
	"github.com/mallardduck/sentry-alert-tool/internal/sentry"
	"github.com/mallardduck/sentry-alert-tool/internal/util"
)

// Mode selects what happens when a managed rule already exists.
type Mode string

const (
	// CreateOnly leaves existing managed rules exactly as they are.
	CreateOnly Mode = "create-only"
	// CreateAndUpdate overwrites existing managed rules with the current
	// desired shape, no content diff involved.
	CreateAndUpdate Mode = "create-and-update"
)

// Action is the planned operation for one desired rule.
type Action string

const (
	ActionCreate Action = "create"
	ActionSkip   Action = "skip"
	ActionUpdate Action = "update"
)

// Decision is one entry of a project's reconciliation plan.
type Decision struct {
	Environment string `yaml:"environment"`
	RuleName    string `yaml:"rule_name"`
	Action      Action `yaml:"action"`
	// RuleID is set for skip/update decisions, pointing at the existing
	// managed rule.
	RuleID string `yaml:"rule_id,omitempty"`
}

// Plan compares the desired alert set (one rule per production environment)
// against the existing managed rules and emits one decision per desired
// rule, in sorted environment order. Foreign rules never appear here, so
// nothing downstream can touch them.
func Plan(prodEnvs util.Set[string], existing map[string]sentry.AlertRule, mode Mode) []Decision {
	decisions := make([]Decision, 0, prodEnvs.Size())
	for _, env := range util.SortedValues(prodEnvs) {
		decision := Decision{
			Environment: env,
			RuleName:    RuleName(env),
		}

		rule, exists := existing[env]
		switch {
		case !exists:
			decision.Action = ActionCreate
		case mode == CreateAndUpdate:
			decision.Action = ActionUpdate
			decision.RuleID = rule.ID
		default:
			decision.Action = ActionSkip
			decision.RuleID = rule.ID
		}

		decisions = append(decisions, decision)
	}
	return decisions
}
