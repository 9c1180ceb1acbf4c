package alerts

import (
	"fmt"

	"github.com/mallardduck/sentry-alert-tool/internal/sentry"
)

// Sentry rule component class IDs.
const (
	// ReappearedEventConditionID fires when an issue leaves the
	// archived/ignored state and escalates again. This is the only trigger
	// these rules use - a first-seen trigger would flood the channel with
	// every new issue.
	ReappearedEventConditionID = "sentry.rules.conditions.reappeared_event.ReappearedEventCondition"

	SlackNotifyActionID      = "sentry.integrations.slack.notify_action.SlackNotifyServiceAction"
	JiraCreateTicketActionID = "sentry.integrations.jira.notify_action.JiraCreateTicketAction"
	NotifyEventActionID      = "sentry.rules.actions.notify_event.NotifyEventAction"
)

// RuleOptions carries everything the builder needs; values originate from
// run configuration and integration discovery, never from constants here.
type RuleOptions struct {
	// Frequency is the rule's rate-limit window in minutes.
	Frequency int

	// SlackWorkspaceID is the Sentry-side Slack integration ID; when empty
	// the rule falls back to a notify-team email action.
	SlackWorkspaceID string
	SlackChannel     string

	// Jira, when non-nil, attaches a create-ticket action.
	Jira *JiraTicketOptions
}

// JiraTicketOptions parameterizes the optional ticket-creation action.
type JiraTicketOptions struct {
	IntegrationID string
	ProjectKey    string
	IssueType     string
	Priority      string
	Assignee      string
	Reporter      string
}

// BuildRule constructs the desired alert rule for one environment. The
// result is deterministic for a given (environment, options) pair; that is
// what makes skip/create decisions stable between runs.
func BuildRule(environment string, opts RuleOptions) sentry.AlertRule {
	rule := sentry.AlertRule{
		Name:        RuleName(environment),
		Description: fmt.Sprintf("Alert when issues enter escalating state in the %s environment", environment),
		Environment: environment,
		ActionMatch: "all",
		FilterMatch: "all",
		Frequency:   opts.Frequency,
		Conditions: []sentry.RuleCondition{
			{ID: ReappearedEventConditionID},
		},
		Filters: []sentry.RuleFilter{},
		Actions: []sentry.RuleAction{},
	}

	if opts.SlackWorkspaceID != "" {
		rule.Actions = append(rule.Actions, sentry.RuleAction{
			ID:        SlackNotifyActionID,
			Workspace: opts.SlackWorkspaceID,
			Channel:   "#" + opts.SlackChannel,
		})
	} else {
		// No Slack integration installed; notify team members by email so
		// the rule still pages someone.
		rule.Actions = append(rule.Actions, sentry.RuleAction{
			ID:   NotifyEventActionID,
			Name: "Send a notification to all team members and issue owners",
			Tags: "environment,issue_title,issue_url",
		})
	}

	if opts.Jira != nil {
		rule.Actions = append(rule.Actions, sentry.RuleAction{
			ID:          JiraCreateTicketActionID,
			Integration: opts.Jira.IntegrationID,
			Project:     opts.Jira.ProjectKey,
			IssueType:   opts.Jira.IssueType,
			Priority:    opts.Jira.Priority,
			Assignee:    opts.Jira.Assignee,
			Reporter:    opts.Jira.Reporter,
		})
	}

	return rule
}
