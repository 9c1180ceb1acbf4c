package alerts

import (
	"strings"

	"github.com/mallardduck/sentry-alert-tool/internal/sentry"
	"github.com/mallardduck/sentry-alert-tool/internal/util"
)

// RuleNamePrefix is the naming scheme that marks a rule as managed by this
// tool. The environment is the remainder of the name after the prefix.
//
// Detection is purely name-based: renaming this prefix orphans every rule
// created under the old scheme, so treat it as frozen.
const RuleNamePrefix = "Escalating Issues - "

// RuleName returns the managed rule name for an environment.
func RuleName(environment string) string {
	return RuleNamePrefix + environment
}

// EnvironmentFromRuleName extracts the environment from a managed rule name,
// or returns false when the name does not follow the naming scheme.
func EnvironmentFromRuleName(name string) (string, bool) {
	if !strings.HasPrefix(name, RuleNamePrefix) {
		return "", false
	}
	env := name[len(RuleNamePrefix):]
	if env == "" {
		return "", false
	}
	return env, true
}

// ManagedRules splits a project's rules into the ones this tool owns, keyed
// by environment name. Everything not in the returned map is a foreign rule
// and must never be modified or deleted.
func ManagedRules(rules []sentry.AlertRule) map[string]sentry.AlertRule {
	managed := util.FilterSlice(rules, func(rule sentry.AlertRule) bool {
		_, ok := EnvironmentFromRuleName(rule.Name)
		return ok
	})

	byEnv := make(map[string]sentry.AlertRule, len(managed))
	for _, rule := range managed {
		env, _ := EnvironmentFromRuleName(rule.Name)
		byEnv[env] = rule
	}
	return byEnv
}
