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
	"testing"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
)

func TestBuiltinIssuesDeterministic(t *testing.T) {
	first := builtinIssues()
	second := builtinIssues()

	if len(first) != 5 {
		t.Fatalf("expected 5 built-in issues, got %d", len(first))
	}
	for i := range first {
		if first[i].Key != second[i].Key {
			t.Errorf("built-in set order changed at %d: %s vs %s", i, first[i].Key, second[i].Key)
		}
	}

	seen := map[string]bool{}
	for _, issue := range first {
		if seen[issue.Key] {
			t.Errorf("duplicate key %s in built-in set", issue.Key)
		}
		seen[issue.Key] = true
	}
}

func TestFilterLocallyNilCriteriaPassesAll(t *testing.T) {
	issues := builtinIssues()

	if got := filterLocally(issues, nil); len(got) != len(issues) {
		t.Errorf("nil criteria should pass all issues, got %d", len(got))
	}
	if got := filterLocally(issues, &nlq.FilterCriteria{}); len(got) != len(issues) {
		t.Errorf("zero criteria should pass all issues, got %d", len(got))
	}
}

func TestFilterLocallyByStatus(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{Status: []string{"In Progress"}})

	if len(got) != 2 {
		t.Fatalf("expected 2 in-progress issues, got %d", len(got))
	}
	for _, issue := range got {
		if issue.Status != "In Progress" {
			t.Errorf("unexpected status %q", issue.Status)
		}
	}
}

func TestFilterLocallyStatusCaseInsensitive(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{Status: []string{"in progress"}})
	if len(got) != 2 {
		t.Errorf("status matching should be case-insensitive, got %d", len(got))
	}
}

func TestFilterLocallyUnassignedSentinel(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{Assignee: []string{UnassignedSentinel}})

	if len(got) != 1 || got[0].Key != "TASK-4" {
		t.Errorf("expected only TASK-4, got %v", got)
	}
}

func TestFilterLocallyKeywordsMatchTitleOrDescription(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{Keywords: []string{"login"}})

	if len(got) != 2 {
		t.Fatalf("expected 2 login issues, got %d", len(got))
	}

	// Any-keyword semantics: one hit is enough.
	got = filterLocally(builtinIssues(), &nlq.FilterCriteria{Keywords: []string{"login", "zzz-nothing"}})
	if len(got) != 2 {
		t.Errorf("any-keyword match expected 2 issues, got %d", len(got))
	}
}

func TestFilterLocallyNoMatchYieldsEmptyNotAll(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{Status: []string{"Blocked"}})

	if len(got) != 0 {
		t.Errorf("non-matching criteria must yield empty, got %d issues", len(got))
	}
	if got == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestFilterLocallyCombinedCriteria(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{
		Status:    []string{"In Progress"},
		IssueType: "Bug",
	})

	if len(got) != 1 || got[0].Key != "TASK-5" {
		t.Errorf("expected only TASK-5, got %v", got)
	}
}

func TestFilterLocallyPriority(t *testing.T) {
	got := filterLocally(builtinIssues(), &nlq.FilterCriteria{Priority: "Highest"})
	if len(got) != 1 || got[0].Key != "TASK-5" {
		t.Errorf("expected only TASK-5, got %v", got)
	}
}
