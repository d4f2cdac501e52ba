// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianTasker/services/assistant/config"
	"github.com/AleutianAI/AleutianTasker/services/assistant/jql"
	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
)

const searchPath = "/rest/api/2/search"

// =============================================================================
// Jira Wire Types
// =============================================================================

type jiraSearchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []jiraIssue `json:"issues"`
}

type jiraIssue struct {
	Key    string     `json:"key"`
	Fields jiraFields `json:"fields"`
}

type jiraFields struct {
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	Status      jiraNamed     `json:"status"`
	Priority    jiraNamed     `json:"priority"`
	IssueType   jiraNamed     `json:"issuetype"`
	Assignee    *jiraUser     `json:"assignee"`
	Created     jiraTimestamp `json:"created"`
	Updated     jiraTimestamp `json:"updated"`
}

type jiraNamed struct {
	Name string `json:"name"`
}

type jiraUser struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// jiraTimestamp parses Jira's "2006-01-02T15:04:05.000-0700" format and
// tolerates absent or malformed values by staying nil.
type jiraTimestamp struct {
	t *time.Time
}

func (ts *jiraTimestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil || raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02T15:04:05.000-0700", raw)
	if err != nil {
		return nil
	}
	ts.t = &parsed
	return nil
}

// =============================================================================
// Client
// =============================================================================

// Client fetches issues from a Jira-compatible tracker.
//
// # Description
//
//	An unconfigured client (no server URL) serves the deterministic
//	built-in issue set. Fetch never returns an error: any remote failure
//	degrades to the built-in set with the same local filtering applied, so
//	downstream response generation is never exposed to tracker outages.
//	Search, by contrast, surfaces errors and leaves the fallback
//	decision to its callers.
//
// # Thread Safety
//
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cfg        config.Settings
	logger     *slog.Logger
}

// NewClient creates a tracker client from settings.
func NewClient(cfg config.Settings) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
		logger:     slog.Default(),
	}
}

// Configured reports whether remote credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.JiraServer != "" && c.cfg.JiraUsername != "" && c.cfg.JiraAPIToken != ""
}

// Fetch returns issues matching the criteria.
//
// # Description
//
//	A nil criteria is an unconstrained fetch. A non-zero criteria that
//	matches nothing returns an empty slice, never the unconstrained set.
//	On any remote failure the built-in set is filtered locally instead;
//	the caller cannot observe the failure beyond a warning log.
//
// # Inputs
//
//   - ctx: Context for the remote call.
//   - criteria: Filter, or nil for an unconstrained fetch.
//
// # Outputs
//
//   - []Issue: Matching issues, possibly empty. Never nil.
func (c *Client) Fetch(ctx context.Context, criteria *nlq.FilterCriteria) []Issue {
	if !c.Configured() {
		return filterLocally(builtinIssues(), criteria)
	}

	query := c.criteriaJQL(criteria)
	issues, _, err := c.Search(ctx, query, 0, 100)
	if err != nil {
		c.logger.Warn("tracker: remote fetch failed, serving built-in issue set",
			slog.String("jql", query),
			slog.String("error", err.Error()),
		)
		return filterLocally(builtinIssues(), criteria)
	}

	// Keyword narrowing the query language cannot express precisely is
	// re-applied locally for parity with the fallback path.
	return filterLocally(issues, criteria)
}

// criteriaJQL builds the remote search expression for Fetch. The full
// synthesis lives in the jql package; this thin form only covers the
// criteria dimensions Jira can filter server-side.
func (c *Client) criteriaJQL(criteria *nlq.FilterCriteria) string {
	var parts []string
	if c.cfg.JiraProjectKey != "" {
		parts = append(parts, fmt.Sprintf("project = %s", c.cfg.JiraProjectKey))
	}
	if criteria != nil {
		if len(criteria.Status) == 1 {
			parts = append(parts, fmt.Sprintf("status = %q", criteria.Status[0]))
		} else if len(criteria.Status) > 1 {
			quoted := make([]string, len(criteria.Status))
			for i, s := range criteria.Status {
				quoted[i] = strconv.Quote(s)
			}
			parts = append(parts, fmt.Sprintf("status IN (%s)", strings.Join(quoted, ", ")))
		}
		if criteria.Priority != "" {
			parts = append(parts, fmt.Sprintf("priority = %q", criteria.Priority))
		}
		if criteria.IssueType != "" {
			parts = append(parts, fmt.Sprintf("issuetype = %q", criteria.IssueType))
		}
		if criteria.TimeFrame != "" {
			if clause := jql.TimeFrameClause(criteria.TimeFrame); clause != "" {
				parts = append(parts, clause)
			}
		}
	}
	if len(parts) == 0 {
		return "ORDER BY created DESC"
	}
	return strings.Join(parts, " AND ") + " ORDER BY created DESC"
}

// Search executes a raw query-language expression against the tracker.
//
// # Inputs
//
//   - ctx: Context for the call.
//   - query: The query-language expression.
//   - startAt, maxResults: Pagination window.
//
// # Outputs
//
//   - []Issue: The page of matching issues.
//   - int: Total match count reported by the tracker.
//   - error: Non-nil if the client is unconfigured or the call fails.
func (c *Client) Search(ctx context.Context, query string, startAt, maxResults int) ([]Issue, int, error) {
	if !c.Configured() {
		return nil, 0, fmt.Errorf("tracker: not configured")
	}

	params := url.Values{}
	params.Set("jql", query)
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(maxResults))

	endpoint := c.cfg.JiraServer + searchPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("tracker: creating search request: %w", err)
	}
	req.SetBasicAuth(c.cfg.JiraUsername, c.cfg.JiraAPIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("tracker: search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("tracker: reading search response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("tracker: search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed jiraSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, 0, fmt.Errorf("tracker: parsing search response: %w", err)
	}

	issues := make([]Issue, 0, len(parsed.Issues))
	for _, ji := range parsed.Issues {
		issues = append(issues, convertIssue(ji))
	}

	c.logger.Debug("tracker: search completed",
		slog.String("jql", query),
		slog.Int("returned", len(issues)),
		slog.Int("total", parsed.Total),
	)

	return issues, parsed.Total, nil
}

// CreateIssue creates a new issue in the configured project.
//
// # Outputs
//
//   - Issue: The created issue with its tracker-assigned key.
//   - error: Non-nil if the client is unconfigured or creation fails.
func (c *Client) CreateIssue(ctx context.Context, title, description, assignee string) (Issue, error) {
	if !c.Configured() {
		return Issue{}, fmt.Errorf("tracker: not configured")
	}

	fields := map[string]any{
		"project":     map[string]string{"key": c.cfg.JiraProjectKey},
		"summary":     title,
		"description": description,
		"issuetype":   map[string]string{"name": "Task"},
	}
	if assignee != "" {
		fields["assignee"] = map[string]string{"name": assignee}
	}

	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return Issue{}, fmt.Errorf("tracker: marshaling create payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.JiraServer+"/rest/api/2/issue", bytes.NewBuffer(payload))
	if err != nil {
		return Issue{}, fmt.Errorf("tracker: creating issue request: %w", err)
	}
	req.SetBasicAuth(c.cfg.JiraUsername, c.cfg.JiraAPIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Issue{}, fmt.Errorf("tracker: issue creation failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Issue{}, fmt.Errorf("tracker: reading create response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return Issue{}, fmt.Errorf("tracker: create returned status %d: %s", resp.StatusCode, string(body))
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return Issue{}, fmt.Errorf("tracker: parsing create response: %w", err)
	}

	return Issue{
		Key:      created.Key,
		Title:    title,
		Status:   "To Do",
		Assignee: orUnassigned(assignee),
	}, nil
}

func convertIssue(ji jiraIssue) Issue {
	assignee := UnassignedSentinel
	if ji.Fields.Assignee != nil {
		if ji.Fields.Assignee.DisplayName != "" {
			assignee = ji.Fields.Assignee.DisplayName
		} else if ji.Fields.Assignee.EmailAddress != "" {
			assignee = ji.Fields.Assignee.EmailAddress
		}
	}

	return Issue{
		Key:         ji.Key,
		Title:       ji.Fields.Summary,
		Description: ji.Fields.Description,
		Status:      ji.Fields.Status.Name,
		Assignee:    assignee,
		Priority:    ji.Fields.Priority.Name,
		Type:        ji.Fields.IssueType.Name,
		Created:     ji.Fields.Created.t,
		Updated:     ji.Fields.Updated.t,
	}
}

func orUnassigned(assignee string) string {
	if assignee == "" {
		return UnassignedSentinel
	}
	return assignee
}
