// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package respond

import (
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
	"github.com/AleutianAI/AleutianTasker/services/tracker"
)

func sampleIssues() []tracker.Issue {
	return []tracker.Issue{
		{Key: "T-1", Title: "Implement login", Status: "In Progress", Assignee: "alice", Type: "Task"},
		{Key: "T-2", Title: "Fix nav bug", Status: "To Do", Assignee: "bob", Type: "Bug"},
		{Key: "T-3", Title: "Write docs", Status: "Done", Assignee: "alice", Type: "Task"},
		{Key: "T-4", Title: "Dashboard widget", Status: "To Do", Assignee: tracker.UnassignedSentinel, Type: "Story"},
	}
}

func TestGenerateCreateExtractsTitle(t *testing.T) {
	g := NewGenerator()
	analysis := nlq.QueryAnalysis{Intent: nlq.IntentCreate}

	resp := g.Generate("create task: Fix login bug", analysis, nil)

	if !strings.Contains(resp.Text, `"Fix login bug"`) {
		t.Errorf("title not extracted into response: %q", resp.Text)
	}
	found := false
	for _, a := range resp.SuggestedActions {
		if a == "Set assignee" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Set assignee' action, got %v", resp.SuggestedActions)
	}
}

func TestExtractTaskTitlePatterns(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"create task: Fix login bug", "Fix login bug"},
		{"create a new task called update the docs", "called update the docs"},
		{"add task: Review pull request.", "Review pull request"},
		{"new task update deps", "update deps"},
		{"create something useful", "something useful"},
		{"please make a widget", ""},
	}

	for _, tc := range cases {
		if got := extractTaskTitle(tc.query); got != tc.want {
			t.Errorf("extractTaskTitle(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestGenerateCreateWithoutTitleAsks(t *testing.T) {
	g := NewGenerator()
	resp := g.Generate("I want to make a new thing", nlq.QueryAnalysis{Intent: nlq.IntentCreate}, nil)

	if !strings.Contains(resp.Text, "What should it be called") {
		t.Errorf("expected a title prompt, got %q", resp.Text)
	}
}

func TestGenerateSummarize(t *testing.T) {
	g := NewGenerator()
	resp := g.Generate("summary", nlq.QueryAnalysis{Intent: nlq.IntentSummarize}, sampleIssues())

	if !strings.Contains(resp.Text, "4 tasks") {
		t.Errorf("expected total count in summary: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "In Progress: 1") || !strings.Contains(resp.Text, "To Do: 2") {
		t.Errorf("expected status breakdown: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Completion rate: 25%") {
		t.Errorf("expected completion rate: %q", resp.Text)
	}
	if resp.IssueCount != 4 {
		t.Errorf("expected issue count 4, got %d", resp.IssueCount)
	}
}

func TestGenerateSummarizeEmpty(t *testing.T) {
	g := NewGenerator()
	resp := g.Generate("summary", nlq.QueryAnalysis{Intent: nlq.IntentSummarize}, nil)

	if !strings.Contains(resp.Text, "no tasks") {
		t.Errorf("expected empty-set wording: %q", resp.Text)
	}
}

func TestGenerateCompareCrossTabulatesBothDimensions(t *testing.T) {
	g := NewGenerator()
	resp := g.Generate("compare the tasks", nlq.QueryAnalysis{Intent: nlq.IntentCompare}, sampleIssues())

	if !strings.Contains(resp.Text, "By status:") || !strings.Contains(resp.Text, "By assignee:") {
		t.Errorf("expected both dimensions: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "alice: 2 (50%)") {
		t.Errorf("expected alice cross-tab with percentage: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "To Do: 2 (50%)") {
		t.Errorf("expected status cross-tab with percentage: %q", resp.Text)
	}
}

func TestGenerateAnalyzeWorkload(t *testing.T) {
	g := NewGenerator()
	resp := g.Generate("analyze workload", nlq.QueryAnalysis{Intent: nlq.IntentAnalyze}, sampleIssues())

	if !strings.Contains(resp.Text, "alice: 2 tasks") {
		t.Errorf("expected per-assignee counts: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "unassigned") {
		t.Errorf("expected the unassigned insight: %q", resp.Text)
	}
}

func TestGenerateFilterGroupsByStatus(t *testing.T) {
	g := NewGenerator()
	analysis := nlq.QueryAnalysis{Intent: nlq.IntentFilter}
	resp := g.Generate("show tasks", analysis, sampleIssues())

	if !strings.Contains(resp.Text, "I found 4 tasks") {
		t.Errorf("expected count line: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "T-2: Fix nav bug (bob)") {
		t.Errorf("expected issue line with assignee: %q", resp.Text)
	}
}

func TestGenerateFilterCapsGroupListing(t *testing.T) {
	issues := make([]tracker.Issue, 0, 8)
	for i := 0; i < 8; i++ {
		issues = append(issues, tracker.Issue{
			Key:      "T-" + string(rune('1'+i)),
			Title:    "Task",
			Status:   "To Do",
			Assignee: "alice",
		})
	}

	g := NewGenerator()
	resp := g.Generate("show tasks", nlq.QueryAnalysis{Intent: nlq.IntentFilter}, issues)

	if !strings.Contains(resp.Text, "...and 3 more") {
		t.Errorf("expected overflow line: %q", resp.Text)
	}
}

func TestGenerateFilterEmptyDistinguishesNoMatchFromNoTasks(t *testing.T) {
	g := NewGenerator()

	unfiltered := g.Generate("show tasks", nlq.QueryAnalysis{Intent: nlq.IntentFilter}, nil)
	if !strings.Contains(unfiltered.Text, "no tasks in the project") {
		t.Errorf("expected empty-project wording: %q", unfiltered.Text)
	}

	filtered := g.Generate("blocked tasks", nlq.QueryAnalysis{
		Intent:   nlq.IntentFilter,
		Criteria: nlq.FilterCriteria{Status: []string{"Blocked"}},
	}, nil)
	if !strings.Contains(filtered.Text, "No tasks match") {
		t.Errorf("expected no-match wording: %q", filtered.Text)
	}
}

func TestGenerateSurfacesVisualizationHint(t *testing.T) {
	g := NewGenerator()
	analysis := nlq.QueryAnalysis{Intent: nlq.IntentFilter, Visualization: "pie"}

	resp := g.Generate("show tasks as a pie chart", analysis, sampleIssues())

	if resp.ChartHint != "pie" {
		t.Errorf("expected pie hint, got %q", resp.ChartHint)
	}
	if len(resp.SuggestedActions) == 0 || resp.SuggestedActions[0] != "Render pie chart" {
		t.Errorf("expected chart action first, got %v", resp.SuggestedActions)
	}
}

func TestGenerateEchoesQuery(t *testing.T) {
	g := NewGenerator()
	resp := g.Generate("show my tasks", nlq.QueryAnalysis{Intent: nlq.IntentFilter}, sampleIssues())

	if resp.Query != "show my tasks" {
		t.Errorf("response must echo the query, got %q", resp.Query)
	}
}
