package sentry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mallardduck/sentry-alert-tool/internal/config"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const userAgent = "sentry-alert-tool/1.0"

// Client is a typed client for the slice of Sentry's REST API this tool
// uses. All requests share a rate limiter, and 429/5xx responses are retried
// with exponential backoff before an error surfaces to the caller.
type Client struct {
	baseURL  string
	orgSlug  string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	maxTries uint
}

func NewClient(cfg config.Config) *Client {
	maxTries := cfg.MaxRetries
	if maxTries < 1 {
		maxTries = 1
	}
	return &Client{
		baseURL: cfg.APIBaseURL,
		orgSlug: cfg.OrgSlug,
		token:   cfg.AuthToken,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		maxTries: uint(maxTries),
	}
}

// Organization fetches the organization the configured token is scoped to.
func (c *Client) Organization(ctx context.Context) (Organization, error) {
	var org Organization
	endpoint := fmt.Sprintf("/organizations/%s/", c.orgSlug)
	err := c.get(ctx, endpoint, nil, &org)
	return org, err
}

// Projects lists every project in the organization, following pagination
// cursors until the listing is exhausted.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	endpoint := fmt.Sprintf("/organizations/%s/projects/", c.orgSlug)

	var projects []Project
	cursor := ""
	page := 1
	for {
		query := url.Values{}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		log.Debugf("Fetching projects page %d (cursor: %q)", page, cursor)
		data, header, err := c.do(ctx, http.MethodGet, endpoint, query, nil)
		if err != nil {
			return nil, err
		}

		var pageProjects []Project
		if err := decode(endpoint, data, &pageProjects); err != nil {
			return nil, err
		}
		projects = append(projects, pageProjects...)

		next, ok := nextCursor(header.Get("Link"))
		if !ok {
			break
		}
		cursor = next
		page++
	}

	log.Debugf("Fetched %d projects across %d pages", len(projects), page)
	return projects, nil
}

// Environments lists the environments a project has reported events from.
func (c *Client) Environments(ctx context.Context, projectSlug string) ([]Environment, error) {
	var envs []Environment
	endpoint := fmt.Sprintf("/projects/%s/%s/environments/", c.orgSlug, projectSlug)
	err := c.get(ctx, endpoint, nil, &envs)
	return envs, err
}

// AlertRules lists the issue alert rules configured on a project.
func (c *Client) AlertRules(ctx context.Context, projectSlug string) ([]AlertRule, error) {
	var rules []AlertRule
	endpoint := fmt.Sprintf("/projects/%s/%s/rules/", c.orgSlug, projectSlug)
	err := c.get(ctx, endpoint, nil, &rules)
	return rules, err
}

// CreateAlertRule creates a new issue alert rule on a project.
func (c *Client) CreateAlertRule(ctx context.Context, projectSlug string, rule AlertRule) (AlertRule, error) {
	var created AlertRule
	endpoint := fmt.Sprintf("/projects/%s/%s/rules/", c.orgSlug, projectSlug)
	data, _, err := c.do(ctx, http.MethodPost, endpoint, nil, rule)
	if err != nil {
		return created, err
	}
	err = decode(endpoint, data, &created)
	return created, err
}

// UpdateAlertRule overwrites an existing rule with the given definition.
func (c *Client) UpdateAlertRule(ctx context.Context, projectSlug string, ruleID string, rule AlertRule) (AlertRule, error) {
	var updated AlertRule
	endpoint := fmt.Sprintf("/projects/%s/%s/rules/%s/", c.orgSlug, projectSlug, ruleID)
	data, _, err := c.do(ctx, http.MethodPut, endpoint, nil, rule)
	if err != nil {
		return updated, err
	}
	err = decode(endpoint, data, &updated)
	return updated, err
}

// RuleConfiguration fetches the rule schema for a project; used to resolve
// which frequency-condition intervals Sentry will accept.
func (c *Client) RuleConfiguration(ctx context.Context, projectSlug string) (RuleConfiguration, error) {
	var ruleConfig RuleConfiguration
	endpoint := fmt.Sprintf("/projects/%s/%s/rules/configuration/", c.orgSlug, projectSlug)
	err := c.get(ctx, endpoint, nil, &ruleConfig)
	return ruleConfig, err
}

// Integrations lists the integrations installed on the organization.
func (c *Client) Integrations(ctx context.Context) ([]Integration, error) {
	var integrations []Integration
	endpoint := fmt.Sprintf("/organizations/%s/integrations/", c.orgSlug)
	err := c.get(ctx, endpoint, nil, &integrations)
	return integrations, err
}

// FindIntegration returns the first installed integration for a provider
// key ("slack", "jira"), or false when none is installed.
func (c *Client) FindIntegration(ctx context.Context, providerKey string) (Integration, bool, error) {
	integrations, err := c.Integrations(ctx)
	if err != nil {
		return Integration{}, false, err
	}
	for _, integration := range integrations {
		if integration.Provider.Key == providerKey {
			return integration, true, nil
		}
	}
	return Integration{}, false, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	data, _, err := c.do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}
	return decode(endpoint, data, out)
}

type attemptResult struct {
	body   []byte
	header http.Header
}

// do performs one API call, waiting on the shared limiter first and retrying
// rate-limit and transient server responses with exponential backoff.
func (c *Client) do(ctx context.Context, method string, endpoint string, query url.Values, payload any) ([]byte, http.Header, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, nil, &APIError{Kind: KindValidation, Endpoint: endpoint, Err: err}
		}
	}

	attempt := func() (*attemptResult, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(&APIError{Kind: KindConnectivity, Endpoint: endpoint, Err: err})
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(reqBody))
		if err != nil {
			return nil, backoff.Permanent(&APIError{Kind: KindValidation, Endpoint: endpoint, Err: err})
		}
		if len(query) > 0 {
			req.URL.RawQuery = query.Encode()
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			// Transit failures get retried the same as 5xx responses.
			return nil, &APIError{Kind: KindConnectivity, Endpoint: endpoint, Err: err}
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &APIError{Kind: KindConnectivity, Endpoint: endpoint, Err: err}
		}

		log.Debugf("%s %s -> %d (%d bytes)", method, endpoint, resp.StatusCode, len(data))

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &attemptResult{body: data, header: resp.Header}, nil
		}

		apiErr := &APIError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    truncate(string(data), 200),
		}

		if apiErr.Kind == KindRateLimited {
			if seconds, parseErr := strconv.Atoi(resp.Header.Get("Retry-After")); parseErr == nil && seconds > 0 {
				log.Debugf("Rate limited on %s, server asked to retry after %ds", endpoint, seconds)
			}
			return nil, apiErr
		}
		if resp.StatusCode >= 500 {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	result, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		return nil, nil, err
	}
	return result.body, result.header, nil
}

func decode(endpoint string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{
			Kind:     KindRemote,
			Endpoint: endpoint,
			Message:  fmt.Sprintf("invalid JSON response: %v", err),
			Err:      err,
		}
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
