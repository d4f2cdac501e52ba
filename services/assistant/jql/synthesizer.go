// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package jql synthesizes, repairs, and converts natural language into
// tracker query-language expressions.
package jql

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
)

// defaultOrdering terminates every synthesized expression.
const defaultOrdering = "ORDER BY created DESC"

// Synthesize builds a complete query-language expression from extracted
// fragments.
//
// # Description
//
//	Clauses are emitted in a fixed field order: project, status, assignee,
//	priority, issue type, time window, then the keyword OR-group. The
//	ordering is part of the output contract; identical extractions always
//	produce byte-identical expressions. Compound fragments contribute
//	their ready-made clause verbatim. An extraction with no fragments at
//	all still yields a valid expression (project clause if configured,
//	otherwise just the ordering).
//
// # Inputs
//
//   - ex: The fragment set from nlq.Extract.
//   - projectKey: Project scope, or empty for no project clause.
//
// # Outputs
//
//   - string: A syntactically valid expression ending in the ordering.
//
// # Thread Safety
//
// Safe for concurrent use; pure function of its inputs.
func Synthesize(ex nlq.Extraction, projectKey string) string {
	var clauses []string

	if projectKey != "" {
		clauses = append(clauses, "project = "+projectKey)
	}

	if c := statusClause(ex.Status); c != "" {
		clauses = append(clauses, c)
	}
	if c := assigneeClause(ex.Assignees); c != "" {
		clauses = append(clauses, c)
	}
	if ex.Priority != nil {
		clauses = append(clauses, fmt.Sprintf("priority = %q", ex.Priority.Value))
	}
	if ex.IssueType != nil {
		clauses = append(clauses, fmt.Sprintf("issuetype = %q", ex.IssueType.Value))
	}
	if ex.Time != nil {
		if c := timeClause(*ex.Time); c != "" {
			clauses = append(clauses, c)
		}
	}
	if c := keywordClause(ex.Quoted, ex.Keywords); c != "" {
		clauses = append(clauses, c)
	}

	if len(clauses) == 0 {
		return defaultOrdering
	}
	return strings.Join(clauses, " AND ") + " " + defaultOrdering
}

// statusClause renders the status fragments. A compound fragment carries its
// own clause and supersedes any literal values; multiple literals become an
// IN list, a single literal an equality.
func statusClause(fragments []nlq.Fragment) string {
	var values []string
	for _, f := range fragments {
		if f.Compound() {
			return f.Clause
		}
		values = append(values, f.Value)
	}

	switch len(values) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("status = %q", values[0])
	default:
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return "status IN (" + strings.Join(quoted, ", ") + ")"
	}
}

// assigneeClause renders the assignee fragments. Compound clauses (EMPTY,
// currentUser()) are emitted as-is; plain names are quoted equalities.
// Multiple assignees form an OR-group.
func assigneeClause(fragments []nlq.Fragment) string {
	var terms []string
	for _, f := range fragments {
		if f.Compound() {
			terms = append(terms, f.Clause)
			continue
		}
		terms = append(terms, fmt.Sprintf("assignee = %q", f.Value))
	}

	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

// timeClause renders a time window against the created field.
//
// Symbolic windows use Jira's calendar-relative functions. The parametrized
// numeric form renders a negative offset: "3 days ago" means "created within
// the last 3 days", so the window opens 3 periods back from now.
func timeClause(w nlq.TimeWindow) string {
	switch w.Unit {
	case "day":
		return fmt.Sprintf("created >= startOfDay(-%dd)", w.Amount)
	case "week":
		return fmt.Sprintf("created >= startOfWeek(-%dw)", w.Amount)
	case "month":
		return fmt.Sprintf("created >= startOfMonth(-%dM)", w.Amount)
	}

	switch w.Token {
	case "today":
		return "created >= startOfDay()"
	case "yesterday":
		return "created >= startOfDay(-1d) AND created < startOfDay()"
	case "this week":
		return "created >= startOfWeek()"
	case "last week":
		return "created >= startOfWeek(-1w) AND created < startOfWeek()"
	case "this month":
		return "created >= startOfMonth()"
	case "last month":
		return "created >= startOfMonth(-1M) AND created < startOfMonth()"
	case "this year":
		return "created >= startOfYear()"
	}
	return ""
}

// TimeFrameClause renders a stored criteria time-frame token as a created
// clause. Synthesize and the tracker's remote fetch both go through the
// rendering table above, so the two paths can never drift apart. An
// unrecognized token renders nothing rather than a malformed clause.
func TimeFrameClause(token string) string {
	w := nlq.ParseTimeFrame(token)
	if w == nil {
		return ""
	}
	return timeClause(*w)
}

// keywordClause renders free-text terms as a text-search OR-group. Quoted
// substrings precede residual keywords, matching criteria assembly order.
func keywordClause(quoted, keywords []string) string {
	var terms []string
	seen := map[string]bool{}

	add := func(term string) {
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			return
		}
		seen[key] = true
		terms = append(terms, fmt.Sprintf("text ~ %q", term))
	}

	for _, q := range quoted {
		add(q)
	}
	for _, k := range keywords {
		add(k)
	}

	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}
