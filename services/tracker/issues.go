// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tracker is the issue source collaborator: a Jira REST client with
// a deterministic built-in fallback set for unconfigured or failing
// deployments.
package tracker

import (
	"strings"
	"time"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
)

// UnassignedSentinel is the assignee value for issues without an assignee.
// It matches the sentinel nlq produces for "unassigned" queries.
const UnassignedSentinel = "Unassigned"

// Issue is the core-facing issue model. Optional timestamps may be nil;
// absent fields never cause extraction or synthesis to fail.
type Issue struct {
	Key         string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority,omitempty"`
	Type        string `json:"issue_type,omitempty"`

	Created  *time.Time `json:"created,omitempty"`
	Updated  *time.Time `json:"updated,omitempty"`
	Resolved *time.Time `json:"resolved,omitempty"`
	Started  *time.Time `json:"started,omitempty"`
	Due      *time.Time `json:"due,omitempty"`
}

// builtinIssues is the deterministic fallback set served when the tracker
// is unconfigured or unreachable. Keys are unique within the set.
func builtinIssues() []Issue {
	return []Issue{
		{
			Key:         "TASK-1",
			Title:       "Implement login page",
			Description: "Create a responsive login page with email and password fields",
			Status:      "In Progress",
			Assignee:    "user1@example.com",
			Priority:    "High",
			Type:        "Task",
		},
		{
			Key:         "TASK-2",
			Title:       "Fix navigation bug",
			Description: "Menu doesn't appear correctly on mobile devices",
			Status:      "To Do",
			Assignee:    "user2@example.com",
			Priority:    "Medium",
			Type:        "Bug",
		},
		{
			Key:         "TASK-3",
			Title:       "Update documentation",
			Description: "Add API documentation for the new endpoints",
			Status:      "Done",
			Assignee:    "user1@example.com",
			Priority:    "Low",
			Type:        "Task",
		},
		{
			Key:         "TASK-4",
			Title:       "Create dashboard widget",
			Description: "Design and implement dashboard widgets for data visualization",
			Status:      "To Do",
			Assignee:    UnassignedSentinel,
			Priority:    "Medium",
			Type:        "Story",
		},
		{
			Key:         "TASK-5",
			Title:       "Fix login authentication",
			Description: "Users unable to login with valid credentials",
			Status:      "In Progress",
			Assignee:    "user1@example.com",
			Priority:    "Highest",
			Type:        "Bug",
		},
	}
}

// filterLocally applies FilterCriteria to an issue slice in memory.
//
// A nil criteria means no filtering was requested and everything passes.
// A non-nil criteria that matches nothing yields an empty slice; callers
// must never reinterpret that as "fetch everything".
func filterLocally(issues []Issue, criteria *nlq.FilterCriteria) []Issue {
	if criteria == nil || criteria.IsZero() {
		return issues
	}

	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if matchesCriteria(issue, criteria) {
			out = append(out, issue)
		}
	}
	return out
}

func matchesCriteria(issue Issue, c *nlq.FilterCriteria) bool {
	if len(c.Status) > 0 && !containsFold(c.Status, issue.Status) {
		return false
	}
	if len(c.Assignee) > 0 && !containsFold(c.Assignee, issue.Assignee) {
		return false
	}
	if c.Priority != "" && !strings.EqualFold(c.Priority, issue.Priority) {
		return false
	}
	if c.IssueType != "" && !strings.EqualFold(c.IssueType, issue.Type) {
		return false
	}
	if len(c.Keywords) > 0 {
		text := strings.ToLower(issue.Title + " " + issue.Description)
		anyHit := false
		for _, kw := range c.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				anyHit = true
				break
			}
		}
		if !anyHit {
			return false
		}
	}
	// TimeFrame is not applied locally: the builtin set carries no
	// timestamps, and remote fetches push it into the query instead.
	return true
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
