package sentry

// Organization is the subset of the organization endpoint this tool reads.
type Organization struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Project is an organization project as reported by the project listing.
type Project struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

// Environment is a runtime environment a project has reported events from.
// Names arrive exactly as teams configured them, inconsistent casing and all.
type Environment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsHidden bool   `json:"isHidden"`
}

// AlertRule is an issue alert rule, both as fetched from Sentry and as
// submitted on create/update.
type AlertRule struct {
	ID          string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Environment string          `json:"environment,omitempty" yaml:"environment,omitempty"`
	ActionMatch string          `json:"actionMatch" yaml:"actionMatch"`
	FilterMatch string          `json:"filterMatch" yaml:"filterMatch"`
	Frequency   int             `json:"frequency" yaml:"frequency"`
	Conditions  []RuleCondition `json:"conditions" yaml:"conditions"`
	Filters     []RuleFilter    `json:"filters" yaml:"filters"`
	Actions     []RuleAction    `json:"actions" yaml:"actions"`
}

// RuleCondition triggers rule evaluation; the ID selects the Sentry-side
// condition class.
type RuleCondition struct {
	ID       string `json:"id" yaml:"id"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
	Interval any    `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// RuleFilter narrows which events a triggered rule applies to.
type RuleFilter struct {
	ID        string `json:"id" yaml:"id"`
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
}

// RuleAction is one notification action on a rule. Sentry's action payloads
// are a union keyed by ID; the fields here cover the Slack and Jira action
// classes this tool manages.
type RuleAction struct {
	ID string `json:"id" yaml:"id"`

	// Slack notify action
	Workspace string `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Channel   string `json:"channel,omitempty" yaml:"channel,omitempty"`

	// Jira create-ticket action
	Integration string `json:"integration,omitempty" yaml:"integration,omitempty"`
	Project     string `json:"project,omitempty" yaml:"project,omitempty"`
	IssueType   string `json:"issuetype,omitempty" yaml:"issuetype,omitempty"`
	Priority    string `json:"priority,omitempty" yaml:"priority,omitempty"`
	Assignee    string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter    string `json:"reporter,omitempty" yaml:"reporter,omitempty"`

	// Fallback notify-team action
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Tags string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Integration is an installed organization integration (Slack, Jira, ...).
type Integration struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Provider IntegrationProvider `json:"provider"`
}

type IntegrationProvider struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// RuleConfiguration is the per-project rule schema; the tool only cares
// about the interval choices of the frequency condition.
type RuleConfiguration struct {
	Conditions []RuleConfigurationNode `json:"conditions"`
}

type RuleConfigurationNode struct {
	ID         string                            `json:"id"`
	FormFields map[string]RuleConfigurationField `json:"formFields"`
}

// RuleConfigurationField carries choice lists that Sentry serializes either
// as [value, label] pairs or as flat values.
type RuleConfigurationField struct {
	Choices []any `json:"choices"`
}
