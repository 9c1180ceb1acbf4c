package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults mirror the values the tool has always shipped with; everything is
// overridable through SENTRY_* environment variables or the config file.
const (
	DefaultAPIBaseURL        = "https://sentry.io/api/0"
	DefaultAlertFrequency    = 10
	DefaultSlackChannel      = "sentry-alerts"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultMaxRetries        = 3
)

// Config holds the full run configuration. It is built once at startup and
// passed by value into every component; nothing reads viper after Load.
type Config struct {
	AuthToken  string
	OrgSlug    string
	APIBaseURL string

	// AlertFrequency is the rule rate-limit window in minutes.
	AlertFrequency int

	// ExtraProductionEnvs extends the production environment allow-list
	// without a code change.
	ExtraProductionEnvs []string

	SlackChannel     string
	SlackWorkspaceID string

	Jira JiraConfig

	RequestTimeout    time.Duration
	RequestsPerSecond float64
	MaxRetries        int
}

// JiraConfig describes the optional ticket-creation action attached to every
// managed rule when enabled. All identities come from configuration.
type JiraConfig struct {
	Enabled       bool
	IntegrationID string
	ProjectKey    string
	IssueType     string
	Priority      string
	Assignee      string
	Reporter      string
}

// Load materializes the configuration from viper's merged sources.
func Load() Config {
	viper.SetDefault("api_base_url", DefaultAPIBaseURL)
	viper.SetDefault("alert_frequency", DefaultAlertFrequency)
	viper.SetDefault("slack_channel", DefaultSlackChannel)
	viper.SetDefault("jira_issue_type", "Task")
	viper.SetDefault("jira_priority", "High")
	viper.SetDefault("request_timeout", DefaultRequestTimeout)
	viper.SetDefault("requests_per_second", DefaultRequestsPerSecond)
	viper.SetDefault("max_retries", DefaultMaxRetries)

	return Config{
		AuthToken:           viper.GetString("auth_token"),
		OrgSlug:             viper.GetString("org_slug"),
		APIBaseURL:          strings.TrimRight(viper.GetString("api_base_url"), "/"),
		AlertFrequency:      viper.GetInt("alert_frequency"),
		ExtraProductionEnvs: splitList(viper.GetString("extra_production_envs")),
		SlackChannel:        strings.TrimPrefix(viper.GetString("slack_channel"), "#"),
		SlackWorkspaceID:    viper.GetString("slack_workspace_id"),
		Jira: JiraConfig{
			Enabled:       viper.GetBool("jira_enabled"),
			IntegrationID: viper.GetString("jira_integration_id"),
			ProjectKey:    viper.GetString("jira_project_key"),
			IssueType:     viper.GetString("jira_issue_type"),
			Priority:      viper.GetString("jira_priority"),
			Assignee:      viper.GetString("jira_assignee"),
			Reporter:      viper.GetString("jira_reporter"),
		},
		RequestTimeout:    viper.GetDuration("request_timeout"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		MaxRetries:        viper.GetInt("max_retries"),
	}
}

// Validate checks the required parameters and reports every missing one in a
// single error rather than failing piecemeal.
func (c Config) Validate() error {
	var missing []string

	if c.AuthToken == "" {
		missing = append(missing, "SENTRY_AUTH_TOKEN")
	}
	if c.OrgSlug == "" {
		missing = append(missing, "SENTRY_ORG_SLUG")
	}
	if c.SlackChannel == "" {
		missing = append(missing, "SENTRY_SLACK_CHANNEL")
	}
	if c.Jira.Enabled {
		if c.Jira.ProjectKey == "" {
			missing = append(missing, "SENTRY_JIRA_PROJECT_KEY")
		}
		if c.Jira.IntegrationID == "" {
			missing = append(missing, "SENTRY_JIRA_INTEGRATION_ID")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.AlertFrequency <= 0 {
		return fmt.Errorf("alert frequency must be a positive number of minutes, got %d", c.AlertFrequency)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %v", c.RequestsPerSecond)
	}

	return nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
