// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package respond turns a query analysis and its matching issues into a
// conversational answer.
package respond

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
	"github.com/AleutianAI/AleutianTasker/services/tracker"
)

// maxIssuesPerGroup caps how many issues a filter response lists per status
// group before summarizing the remainder.
const maxIssuesPerGroup = 5

// Response is the assistant's answer to one query.
type Response struct {
	// Text is the conversational answer body.
	Text string `json:"response"`

	// Query echoes the original request verbatim.
	Query string `json:"query"`

	// IssueCount is the number of issues the answer is based on.
	IssueCount int `json:"issue_count"`

	// SuggestedActions are follow-up actions relevant to the intent.
	SuggestedActions []string `json:"suggested_actions,omitempty"`

	// ChartHint is the visualization hint carried through from analysis.
	ChartHint string `json:"chart_hint,omitempty"`
}

// Generator produces pattern-based responses for every intent.
//
// # Thread Safety
//
// Safe for concurrent use; the generator is stateless.
type Generator struct{}

// NewGenerator creates a pattern-based response generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the response for one analyzed query.
//
// # Description
//
//	Dispatches on intent. Every branch is total: an empty issue set
//	produces an informative answer, never an error. A visualization hint
//	in the analysis is surfaced verbatim in the chart hint and prepends a
//	chart-rendering suggested action.
//
// # Inputs
//
//   - query: The original request text.
//   - analysis: The per-query analysis.
//   - issues: The issues the answer describes. May be empty.
//
// # Outputs
//
//   - Response: The complete answer.
func (g *Generator) Generate(query string, analysis nlq.QueryAnalysis, issues []tracker.Issue) Response {
	var resp Response
	switch analysis.Intent {
	case nlq.IntentCreate:
		resp = g.createResponse(query)
	case nlq.IntentSummarize:
		resp = g.summarizeResponse(issues)
	case nlq.IntentCompare:
		resp = g.compareResponse(issues)
	case nlq.IntentAnalyze:
		resp = g.analyzeResponse(issues)
	default:
		resp = g.filterResponse(analysis, issues)
	}

	resp.Query = query
	resp.IssueCount = len(issues)

	if analysis.Visualization != "" {
		resp.ChartHint = analysis.Visualization
		resp.SuggestedActions = append(
			[]string{"Render " + analysis.Visualization + " chart"},
			resp.SuggestedActions...,
		)
	}

	return resp
}

// =============================================================================
// Create
// =============================================================================

// titlePatterns extract the task title from a creation request, tried in
// declared order with the first match winning.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)create (?:a )?(?:new )?task[:\s]+(.+?)(?:[.!?]|$)`),
	regexp.MustCompile(`(?i)add (?:a )?(?:new )?task[:\s]+(.+?)(?:[.!?]|$)`),
	regexp.MustCompile(`(?i)new task[:\s]+(.+?)(?:[.!?]|$)`),
	regexp.MustCompile(`(?i)create[:\s]+(.+?)(?:[.!?]|$)`),
}

func (g *Generator) createResponse(query string) Response {
	title := extractTaskTitle(query)

	var text string
	if title != "" {
		text = fmt.Sprintf("I'll create a task titled %q. You can set its priority and due date once it's created.", title)
	} else {
		text = "I can create a task for you. What should it be called?"
	}

	return Response{
		Text: text,
		SuggestedActions: []string{
			"Set assignee",
			"Set priority",
			"Set due date",
		},
	}
}

// extractTaskTitle returns the first pattern capture, whitespace-trimmed, or
// empty when no pattern matches.
func extractTaskTitle(query string) string {
	for _, p := range titlePatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// =============================================================================
// Summarize
// =============================================================================

func (g *Generator) summarizeResponse(issues []tracker.Issue) Response {
	if len(issues) == 0 {
		return Response{
			Text:             "There are no tasks to summarize right now.",
			SuggestedActions: []string{"Create a task", "Show all tasks"},
		}
	}

	stats := computeStats(issues)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's a summary of your %d tasks:\n\n", stats.Total)
	for _, status := range stats.StatusOrder {
		fmt.Fprintf(&sb, "- %s: %d\n", status, stats.ByStatus[status])
	}
	fmt.Fprintf(&sb, "\nCompletion rate: %.0f%%.", stats.completionRate())

	for _, insight := range insights(stats) {
		sb.WriteString("\n" + insight)
	}

	return Response{
		Text: sb.String(),
		SuggestedActions: []string{
			"Show tasks in progress",
			"Show unassigned tasks",
		},
	}
}

// =============================================================================
// Compare
// =============================================================================

// compareResponse cross-tabulates issues by status and by assignee, with
// percentages computed against the filtered set size.
func (g *Generator) compareResponse(issues []tracker.Issue) Response {
	if len(issues) == 0 {
		return Response{Text: "There are no tasks to compare."}
	}

	stats := computeStats(issues)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparing %d tasks:\n", stats.Total)

	writeDimension := func(label string, counts map[string]int) {
		fmt.Fprintf(&sb, "\nBy %s:\n", label)
		for _, name := range sortedNames(counts) {
			count := counts[name]
			pct := float64(count) / float64(stats.Total) * 100
			fmt.Fprintf(&sb, "- %s: %d (%.0f%%)\n", name, count, pct)
		}
	}
	writeDimension("status", stats.ByStatus)
	writeDimension("assignee", stats.ByAssignee)

	return Response{
		Text:             strings.TrimRight(sb.String(), "\n"),
		SuggestedActions: []string{"Render bar chart", "Show task details"},
	}
}

// =============================================================================
// Analyze
// =============================================================================

// analyzeResponse reports per-assignee workload against the mean, flagging
// anyone more than 50 percent above or below it, then appends the summary
// insights.
func (g *Generator) analyzeResponse(issues []tracker.Issue) Response {
	if len(issues) == 0 {
		return Response{Text: "There are no tasks to analyze."}
	}

	stats := computeStats(issues)

	assigned := 0
	holders := 0
	for _, name := range stats.AssigneeOrder {
		if name == tracker.UnassignedSentinel || name == "" {
			continue
		}
		assigned += stats.ByAssignee[name]
		holders++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Workload analysis across %d tasks:\n", stats.Total)

	if holders > 0 {
		mean := float64(assigned) / float64(holders)
		for _, name := range stats.AssigneeOrder {
			if name == tracker.UnassignedSentinel || name == "" {
				continue
			}
			count := stats.ByAssignee[name]
			load := ""
			switch {
			case float64(count) > mean*1.5:
				load = " (above average load)"
			case float64(count) < mean*0.5:
				load = " (below average load)"
			}
			fmt.Fprintf(&sb, "\n- %s: %d tasks%s", name, count, load)
		}
	}

	for _, insight := range insights(stats) {
		sb.WriteString("\n" + insight)
	}

	return Response{
		Text:             sb.String(),
		SuggestedActions: []string{"Reassign tasks", "Show unassigned tasks"},
	}
}

// =============================================================================
// Filter (default)
// =============================================================================

func (g *Generator) filterResponse(analysis nlq.QueryAnalysis, issues []tracker.Issue) Response {
	if len(issues) == 0 {
		if analysis.Criteria.IsZero() {
			return Response{
				Text:             "There are no tasks in the project yet.",
				SuggestedActions: []string{"Create a task"},
			}
		}
		return Response{
			Text:             "No tasks match those filters. Try broadening your search.",
			SuggestedActions: []string{"Show all tasks", "Create a task"},
		}
	}

	stats := computeStats(issues)

	var sb strings.Builder
	noun := "tasks"
	if len(issues) == 1 {
		noun = "task"
	}
	fmt.Fprintf(&sb, "I found %d %s:\n", len(issues), noun)

	for _, status := range stats.StatusOrder {
		fmt.Fprintf(&sb, "\n%s:\n", status)
		listed := 0
		for _, issue := range issues {
			if issue.Status != status {
				continue
			}
			if listed == maxIssuesPerGroup {
				fmt.Fprintf(&sb, "  ...and %d more\n", stats.ByStatus[status]-maxIssuesPerGroup)
				break
			}
			fmt.Fprintf(&sb, "  - %s: %s (%s)\n", issue.Key, issue.Title, issue.Assignee)
			listed++
		}
	}

	return Response{
		Text:             strings.TrimRight(sb.String(), "\n"),
		SuggestedActions: []string{"Summarize these tasks", "Refine filters"},
	}
}
