package sentry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mallardduck/sentry-alert-tool/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AuthToken:         "test-token",
		OrgSlug:           "acme",
		APIBaseURL:        baseURL,
		RequestTimeout:    5 * time.Second,
		RequestsPerSecond: 1000,
		MaxRetries:        3,
	}
}

func TestProjectsFollowsPagination(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/organizations/acme/projects/", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		cursor := r.URL.Query().Get("cursor")
		requests = append(requests, cursor)

		switch cursor {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s?cursor=0:100:0>; rel="next"; results="true"; cursor="0:100:0"`, r.URL.Path))
			_ = json.NewEncoder(w).Encode([]Project{{Slug: "alpha"}, {Slug: "beta"}})
		case "0:100:0":
			w.Header().Set("Link", fmt.Sprintf(`<%s?cursor=0:200:0>; rel="next"; results="false"; cursor="0:200:0"`, r.URL.Path))
			_ = json.NewEncoder(w).Encode([]Project{{Slug: "gamma"}})
		default:
			t.Fatalf("unexpected cursor %q", cursor)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	projects, err := client.Projects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, []string{"", "0:100:0"}, requests)
	assert.Equal(t, "gamma", projects[2].Slug)
}

func TestAuthErrorClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Projects(context.Background())

	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuth))
	assert.True(t, IsFatal(err))
}

func TestNotFoundClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.AlertRules(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsFatal(err))
}

func TestRateLimitedRetriesThenSucceeds(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode([]AlertRule{{ID: "1", Name: "Escalating Issues - production"}})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	rules, err := client.AlertRules(context.Background(), "api")

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, 2, calls)
}

func TestRateLimitedExhaustsRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	client := NewClient(cfg)
	_, err := client.AlertRules(context.Background(), "api")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindRateLimited))
	assert.Equal(t, 2, calls)
}

func TestAuthErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Projects(context.Background())

	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuth))
	assert.Equal(t, 1, calls)
}

func TestConnectivityErrorClassification(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 1
	client := NewClient(cfg)

	_, err := client.Organization(context.Background())

	require.Error(t, err)
	assert.True(t, IsKind(err, KindConnectivity))
	assert.True(t, IsFatal(err))
}

func TestCreateAlertRuleSendsPayload(t *testing.T) {
	var received AlertRule
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/projects/acme/api/rules/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		received.ID = "99"
		_ = json.NewEncoder(w).Encode(received)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	rule := AlertRule{
		Name:        "Escalating Issues - production",
		Environment: "production",
		ActionMatch: "all",
		FilterMatch: "all",
		Frequency:   10,
		Conditions:  []RuleCondition{{ID: "sentry.rules.conditions.reappeared_event.ReappearedEventCondition"}},
		Actions:     []RuleAction{{ID: "sentry.integrations.slack.notify_action.SlackNotifyServiceAction", Workspace: "1", Channel: "#sentry-alerts"}},
	}

	created, err := client.CreateAlertRule(context.Background(), "api", rule)

	require.NoError(t, err)
	assert.Equal(t, "99", created.ID)
	assert.Equal(t, rule.Name, received.Name)
	assert.Equal(t, "#sentry-alerts", received.Actions[0].Channel)
}

func TestFindIntegration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/organizations/acme/integrations/", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Integration{
			{ID: "10", Name: "Acme Jira", Provider: IntegrationProvider{Key: "jira"}},
			{ID: "20", Name: "Acme Slack", Provider: IntegrationProvider{Key: "slack"}},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	slack, found, err := client.FindIntegration(context.Background(), "slack")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "20", slack.ID)

	_, found, err = client.FindIntegration(context.Background(), "pagerduty")
	require.NoError(t, err)
	assert.False(t, found)
}
