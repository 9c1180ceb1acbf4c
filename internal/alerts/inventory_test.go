package alerts

import (
	"testing"

	"github.com/mallardduck/sentry-alert-tool/internal/sentry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleName(t *testing.T) {
	assert.Equal(t, "Escalating Issues - production-worker", RuleName("production-worker"))
	assert.Equal(t, "Escalating Issues - PROD", RuleName("PROD"))
}

func TestEnvironmentFromRuleName(t *testing.T) {
	env, ok := EnvironmentFromRuleName("Escalating Issues - production")
	require.True(t, ok)
	assert.Equal(t, "production", env)

	_, ok = EnvironmentFromRuleName("Custom Alert")
	assert.False(t, ok)

	// Prefix with nothing after it is not a managed rule.
	_, ok = EnvironmentFromRuleName("Escalating Issues - ")
	assert.False(t, ok)

	// Prefix match is case and spacing exact.
	_, ok = EnvironmentFromRuleName("escalating issues - production")
	assert.False(t, ok)
}

func TestManagedRulesSplitsForeignRules(t *testing.T) {
	rules := []sentry.AlertRule{
		{ID: "1", Name: "Escalating Issues - production"},
		{ID: "2", Name: "Custom Alert"},
		{ID: "3", Name: "Escalating Issues - ECS_PROD"},
		{ID: "4", Name: "High Error Rate - Production"},
	}

	managed := ManagedRules(rules)

	require.Len(t, managed, 2)
	assert.Equal(t, "1", managed["production"].ID)
	assert.Equal(t, "3", managed["ECS_PROD"].ID)
}

func TestManagedRulesKeyedByEnvironmentNotOrder(t *testing.T) {
	forward := []sentry.AlertRule{
		{ID: "1", Name: "Escalating Issues - production"},
		{ID: "2", Name: "Escalating Issues - prod-worker"},
	}
	reversed := []sentry.AlertRule{forward[1], forward[0]}

	assert.Equal(t, ManagedRules(forward), ManagedRules(reversed))
}
