package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() RuleOptions {
	return RuleOptions{
		Frequency:        10,
		SlackWorkspaceID: "12345",
		SlackChannel:     "sentry-alerts",
	}
}

func TestBuildRuleNamingDeterminism(t *testing.T) {
	first := BuildRule("production-worker", defaultOptions())
	second := BuildRule("production-worker", defaultOptions())

	assert.Equal(t, "Escalating Issues - production-worker", first.Name)
	assert.Equal(t, first, second)
}

func TestBuildRuleShape(t *testing.T) {
	rule := BuildRule("production", defaultOptions())

	assert.Equal(t, "production", rule.Environment)
	assert.Equal(t, "all", rule.ActionMatch)
	assert.Equal(t, "all", rule.FilterMatch)
	assert.Equal(t, 10, rule.Frequency)

	// Exactly one condition: the archived-to-escalating transition. Never a
	// first-seen trigger.
	require.Len(t, rule.Conditions, 1)
	assert.Equal(t, ReappearedEventConditionID, rule.Conditions[0].ID)

	require.Len(t, rule.Actions, 1)
	assert.Equal(t, SlackNotifyActionID, rule.Actions[0].ID)
	assert.Equal(t, "12345", rule.Actions[0].Workspace)
	assert.Equal(t, "#sentry-alerts", rule.Actions[0].Channel)
}

func TestBuildRuleEmailFallbackWithoutSlack(t *testing.T) {
	opts := defaultOptions()
	opts.SlackWorkspaceID = ""

	rule := BuildRule("production", opts)

	require.Len(t, rule.Actions, 1)
	assert.Equal(t, NotifyEventActionID, rule.Actions[0].ID)
}

func TestBuildRuleJiraAction(t *testing.T) {
	opts := defaultOptions()
	opts.Jira = &JiraTicketOptions{
		IntegrationID: "777",
		ProjectKey:    "OPS",
		IssueType:     "Task",
		Priority:      "High",
		Assignee:      "oncall",
		Reporter:      "alert-bot",
	}

	rule := BuildRule("production", opts)

	require.Len(t, rule.Actions, 2)
	jira := rule.Actions[1]
	assert.Equal(t, JiraCreateTicketActionID, jira.ID)
	assert.Equal(t, "777", jira.Integration)
	assert.Equal(t, "OPS", jira.Project)
	assert.Equal(t, "Task", jira.IssueType)
	assert.Equal(t, "High", jira.Priority)
	assert.Equal(t, "oncall", jira.Assignee)
	assert.Equal(t, "alert-bot", jira.Reporter)
}

func TestBuildRuleFrequencyFromOptions(t *testing.T) {
	opts := defaultOptions()
	opts.Frequency = 30

	assert.Equal(t, 30, BuildRule("production", opts).Frequency)
}
