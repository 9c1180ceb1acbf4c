package syncalerts

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/mallardduck/sentry-alert-tool/internal/alerts"
	"github.com/mallardduck/sentry-alert-tool/internal/config"
	"github.com/mallardduck/sentry-alert-tool/internal/sentry"
	"github.com/mallardduck/sentry-alert-tool/internal/util"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SentryAPI is the slice of client behavior the reconciliation run needs;
// tests substitute it with a fake.
type SentryAPI interface {
	Projects(ctx context.Context) ([]sentry.Project, error)
	Environments(ctx context.Context, projectSlug string) ([]sentry.Environment, error)
	AlertRules(ctx context.Context, projectSlug string) ([]sentry.AlertRule, error)
	CreateAlertRule(ctx context.Context, projectSlug string, rule sentry.AlertRule) (sentry.AlertRule, error)
	UpdateAlertRule(ctx context.Context, projectSlug string, ruleID string, rule sentry.AlertRule) (sentry.AlertRule, error)
	RuleConfiguration(ctx context.Context, projectSlug string) (sentry.RuleConfiguration, error)
	FindIntegration(ctx context.Context, providerKey string) (sentry.Integration, bool, error)
}

// Options selects what a run does.
type Options struct {
	Mode   alerts.Mode
	DryRun bool
	// Projects restricts the run to the given slugs; empty means all.
	Projects []string
	// Workers bounds the number of projects reconciled concurrently.
	// Decisions within one project always execute serially.
	Workers int
}

// Summary is the result of a full run.
type Summary struct {
	Mode     alerts.Mode
	DryRun   bool
	Outcomes []alerts.ProjectOutcome
	Stats    alerts.Stats
}

// HasFailures reports whether any project failed during the run.
func (s Summary) HasFailures() bool {
	return s.Stats.ProjectsFailed > 0
}

// Run reconciles alert rules across the organization's projects. An error
// return means the run never got going (project listing failed); per-project
// failures land in the summary instead and never abort remaining projects.
func Run(ctx context.Context, api SentryAPI, cfg config.Config, opts Options) (Summary, error) {
	summary := Summary{Mode: opts.Mode, DryRun: opts.DryRun}

	ruleOpts := resolveRuleOptions(ctx, api, cfg)

	projects, err := api.Projects(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing projects: %w", err)
	}
	projects = filterProjects(projects, opts.Projects)
	log.Infof("Reconciling %d projects (mode: %s, dry-run: %t)", len(projects), opts.Mode, opts.DryRun)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]alerts.ProjectOutcome, len(projects))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, project := range projects {
		group.Go(func() error {
			outcomes[i] = reconcileProject(groupCtx, api, cfg, opts, ruleOpts, project)
			// Per-project failures are recorded, not returned; one bad
			// project must not cancel the rest of the run.
			return nil
		})
	}
	_ = group.Wait()

	summary.Outcomes = outcomes
	summary.Stats = alerts.Summarize(outcomes)
	return summary, nil
}

// resolveRuleOptions discovers the Slack (and, when enabled, Jira)
// integration IDs once per run. Discovery failures fall back to configured
// values; rules built without any Slack workspace use the email action.
func resolveRuleOptions(ctx context.Context, api SentryAPI, cfg config.Config) alerts.RuleOptions {
	ruleOpts := alerts.RuleOptions{
		Frequency:        cfg.AlertFrequency,
		SlackWorkspaceID: cfg.SlackWorkspaceID,
		SlackChannel:     cfg.SlackChannel,
	}

	if ruleOpts.SlackWorkspaceID == "" {
		if integration, found, err := api.FindIntegration(ctx, "slack"); err != nil {
			log.Warnf("Could not discover Slack integration: %v", err)
		} else if found {
			ruleOpts.SlackWorkspaceID = integration.ID
		}
	}
	if ruleOpts.SlackWorkspaceID == "" {
		log.Warn("No Slack integration configured or discovered; rules will use email notifications")
	}

	if cfg.Jira.Enabled {
		jiraOpts := &alerts.JiraTicketOptions{
			IntegrationID: cfg.Jira.IntegrationID,
			ProjectKey:    cfg.Jira.ProjectKey,
			IssueType:     cfg.Jira.IssueType,
			Priority:      cfg.Jira.Priority,
			Assignee:      cfg.Jira.Assignee,
			Reporter:      cfg.Jira.Reporter,
		}
		if jiraOpts.IntegrationID == "" {
			if integration, found, err := api.FindIntegration(ctx, "jira"); err != nil {
				log.Warnf("Could not discover Jira integration: %v", err)
			} else if found {
				jiraOpts.IntegrationID = integration.ID
			}
		}
		ruleOpts.Jira = jiraOpts
	}

	return ruleOpts
}

// reconcileProject plans and (unless dry-running) executes one project's
// decisions. All errors are captured into the outcome.
func reconcileProject(ctx context.Context, api SentryAPI, cfg config.Config, opts Options, ruleOpts alerts.RuleOptions, project sentry.Project) alerts.ProjectOutcome {
	outcome := alerts.ProjectOutcome{Project: project}

	envs, err := api.Environments(ctx, project.Slug)
	if err != nil {
		return failOutcome(outcome, project, err)
	}
	envSet := util.NewSet[string]()
	for _, env := range envs {
		if env.IsHidden {
			continue
		}
		_ = envSet.Add(env.Name)
	}

	prodEnvs := alerts.ProductionEnvironments(envSet, cfg.ExtraProductionEnvs)
	outcome.ProductionEnvs = util.SortedValues(prodEnvs)

	rules, err := api.AlertRules(ctx, project.Slug)
	if err != nil {
		return failOutcome(outcome, project, err)
	}
	managed := alerts.ManagedRules(rules)
	outcome.ManagedCount = len(managed)
	outcome.StaleEnvs = staleEnvironments(managed, prodEnvs)

	outcome.Decisions = alerts.Plan(prodEnvs, managed, opts.Mode)
	if opts.DryRun {
		return outcome
	}

	// Resolve the accepted frequency once per project, only when there is
	// something to write.
	projectRuleOpts := ruleOpts
	if needsWrite(outcome.Decisions) {
		projectRuleOpts.Frequency = resolveFrequency(ctx, api, project.Slug, cfg.AlertFrequency)
	}

	for _, decision := range outcome.Decisions {
		switch decision.Action {
		case alerts.ActionSkip:
			log.Debugf("%s: rule %q already exists, skipping", project.Slug, decision.RuleName)
			outcome.Skipped++
		case alerts.ActionCreate:
			rule := alerts.BuildRule(decision.Environment, projectRuleOpts)
			if _, err := api.CreateAlertRule(ctx, project.Slug, rule); err != nil {
				return failOutcome(outcome, project, err)
			}
			log.Infof("%s: created rule %q", project.Slug, decision.RuleName)
			outcome.Created++
		case alerts.ActionUpdate:
			rule := alerts.BuildRule(decision.Environment, projectRuleOpts)
			rule.ID = decision.RuleID
			if _, err := api.UpdateAlertRule(ctx, project.Slug, decision.RuleID, rule); err != nil {
				return failOutcome(outcome, project, err)
			}
			log.Infof("%s: updated rule %q", project.Slug, decision.RuleName)
			outcome.Updated++
		}
	}

	return outcome
}

func failOutcome(outcome alerts.ProjectOutcome, project sentry.Project, err error) alerts.ProjectOutcome {
	log.Errorf("Project %s failed: %v", project.Slug, err)
	outcome.Failed = true
	outcome.ErrorKind = string(sentry.KindOf(err))
	outcome.ErrorMessage = err.Error()
	return outcome
}

func needsWrite(decisions []alerts.Decision) bool {
	for _, decision := range decisions {
		if decision.Action != alerts.ActionSkip {
			return true
		}
	}
	return false
}

// staleEnvironments lists managed rules whose environment is no longer a
// production-like environment of the project. Those rules are invisible to
// the desired set and would be duplicated if the environment came back under
// a new name, so reporting surfaces them.
func staleEnvironments(managed map[string]sentry.AlertRule, prodEnvs util.Set[string]) []string {
	var stale []string
	for env := range managed {
		if !prodEnvs.Contains(env) {
			stale = append(stale, env)
		}
	}
	sort.Strings(stale)
	return stale
}

// resolveFrequency checks the project's rule schema for the accepted
// frequency choices and picks the configured value when allowed, otherwise
// the first accepted choice. Any failure falls back to the configured value.
func resolveFrequency(ctx context.Context, api SentryAPI, projectSlug string, configured int) int {
	ruleConfig, err := api.RuleConfiguration(ctx, projectSlug)
	if err != nil {
		log.Debugf("Could not fetch rule configuration for %s: %v", projectSlug, err)
		return configured
	}

	for _, node := range ruleConfig.Conditions {
		field, ok := node.FormFields["frequency"]
		if !ok {
			if field, ok = node.FormFields["interval"]; !ok {
				continue
			}
		}
		allowed := flattenChoices(field.Choices)
		if len(allowed) == 0 {
			continue
		}
		for _, value := range allowed {
			if value == configured {
				return configured
			}
		}
		log.Debugf("Configured frequency %d not accepted by %s; using %d", configured, projectSlug, allowed[0])
		return allowed[0]
	}

	return configured
}

// flattenChoices handles both [value, label] pairs and flat choice lists,
// keeping only values that parse as whole minutes.
func flattenChoices(choices []any) []int {
	var values []int
	for _, choice := range choices {
		raw := choice
		if pair, ok := choice.([]any); ok && len(pair) > 0 {
			raw = pair[0]
		}
		switch v := raw.(type) {
		case float64:
			values = append(values, int(v))
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				values = append(values, parsed)
			}
		}
	}
	return values
}

func filterProjects(projects []sentry.Project, slugs []string) []sentry.Project {
	if len(slugs) == 0 {
		return projects
	}
	wanted := util.SetOf(slugs...)
	return util.FilterSlice(projects, func(project sentry.Project) bool {
		return wanted.Contains(project.Slug)
	})
}
