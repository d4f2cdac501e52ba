// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package nlq

import (
	"testing"
)

func TestExtractStatusLiteral(t *testing.T) {
	ex := Extract("show me tasks in progress")

	if len(ex.Status) != 1 {
		t.Fatalf("expected 1 status fragment, got %d", len(ex.Status))
	}
	if ex.Status[0].Value != "In Progress" {
		t.Errorf("expected canonical value 'In Progress', got %q", ex.Status[0].Value)
	}
	if ex.Status[0].Compound() {
		t.Errorf("literal match should not carry a clause, got %q", ex.Status[0].Clause)
	}
}

func TestExtractStatusCompoundShortCircuitsLiteral(t *testing.T) {
	// "not done" contains "done"; the compound phrase must win and the
	// literal must not also fire.
	ex := Extract("show tasks that are not done")

	if len(ex.Status) != 1 {
		t.Fatalf("expected exactly 1 status fragment, got %d", len(ex.Status))
	}
	if ex.Status[0].Clause != `status != "Done"` {
		t.Errorf("expected compound clause, got %q", ex.Status[0].Clause)
	}
	if ex.Status[0].Value != "" {
		t.Errorf("compound status should carry no literal value, got %q", ex.Status[0].Value)
	}
}

func TestExtractStatusDeduplicatesSynonyms(t *testing.T) {
	// "completed" and "finished" both canonicalize to Done.
	ex := Extract("completed and finished tasks")

	if len(ex.Status) != 1 {
		t.Fatalf("expected synonyms to collapse to 1 fragment, got %d", len(ex.Status))
	}
	if ex.Status[0].Value != "Done" {
		t.Errorf("expected Done, got %q", ex.Status[0].Value)
	}
}

func TestExtractSingleStatusOnlyPopulatesStatus(t *testing.T) {
	ex := Extract("in progress")

	if len(ex.Status) != 1 {
		t.Fatalf("expected 1 status fragment, got %d", len(ex.Status))
	}
	if len(ex.Assignees) != 0 || ex.Priority != nil || ex.IssueType != nil || ex.Time != nil {
		t.Errorf("only status should be populated: %+v", ex)
	}
	if len(ex.Keywords) != 0 {
		t.Errorf("status tokens must be consumed, got keywords %v", ex.Keywords)
	}
}

func TestExtractUnassigned(t *testing.T) {
	ex := Extract("show unassigned bugs")

	if len(ex.Assignees) != 1 {
		t.Fatalf("expected 1 assignee fragment, got %d", len(ex.Assignees))
	}
	if ex.Assignees[0].Value != "Unassigned" {
		t.Errorf("expected Unassigned sentinel value, got %q", ex.Assignees[0].Value)
	}
	if ex.Assignees[0].Clause != "assignee is EMPTY" {
		t.Errorf("expected EMPTY clause, got %q", ex.Assignees[0].Clause)
	}
	if ex.IssueType == nil || ex.IssueType.Value != "Bug" {
		t.Errorf("expected Bug issue type, got %+v", ex.IssueType)
	}
}

func TestExtractAssignedToMe(t *testing.T) {
	ex := Extract("what is assigned to me?")

	if len(ex.Assignees) != 1 {
		t.Fatalf("expected 1 assignee fragment, got %d", len(ex.Assignees))
	}
	if ex.Assignees[0].Clause != "assignee = currentUser()" {
		t.Errorf("expected currentUser() clause, got %q", ex.Assignees[0].Clause)
	}
	if ex.Assignees[0].Value != "" {
		t.Errorf("currentUser fragment should carry no value, got %q", ex.Assignees[0].Value)
	}
}

func TestExtractMyTasksAtEndOfQuery(t *testing.T) {
	ex := Extract("show my tasks")

	if len(ex.Assignees) != 1 {
		t.Fatalf("expected 1 assignee fragment, got %d", len(ex.Assignees))
	}
	if ex.Assignees[0].Clause != "assignee = currentUser()" {
		t.Errorf("expected currentUser() clause, got %q", ex.Assignees[0].Clause)
	}
}

func TestExtractMyInsideWordIsNotSelfReference(t *testing.T) {
	// "dummy" ends in "my"; only the standalone word may produce a
	// currentUser() fragment.
	ex := Extract("dummy tasks")

	if len(ex.Assignees) != 0 {
		t.Errorf("expected no assignee fragments, got %+v", ex.Assignees)
	}
}

func TestExtractExplicitAssignee(t *testing.T) {
	ex := Extract("tasks assigned to alice.smith")

	if len(ex.Assignees) != 1 {
		t.Fatalf("expected 1 assignee fragment, got %d", len(ex.Assignees))
	}
	if ex.Assignees[0].Value != "alice.smith" {
		t.Errorf("expected alice.smith, got %q", ex.Assignees[0].Value)
	}
}

func TestExtractPossessiveAssignee(t *testing.T) {
	ex := Extract("show bob's tasks")

	if len(ex.Assignees) != 1 {
		t.Fatalf("expected 1 assignee fragment, got %d", len(ex.Assignees))
	}
	if ex.Assignees[0].Value != "bob" {
		t.Errorf("expected bob, got %q", ex.Assignees[0].Value)
	}
}

func TestExtractPriorityFirstMatchWins(t *testing.T) {
	ex := Extract("critical issues please")

	if ex.Priority == nil {
		t.Fatal("expected a priority fragment")
	}
	if ex.Priority.Value != "Highest" {
		t.Errorf("expected Highest, got %q", ex.Priority.Value)
	}
}

func TestExtractSymbolicTimeWindow(t *testing.T) {
	ex := Extract("tasks created last week")

	if ex.Time == nil {
		t.Fatal("expected a time window")
	}
	if ex.Time.Token != "last week" {
		t.Errorf("expected 'last week', got %q", ex.Time.Token)
	}
	if ex.Time.Unit != "" {
		t.Errorf("symbolic window should have no unit, got %q", ex.Time.Unit)
	}
}

func TestExtractYesterdayNotShadowedByToday(t *testing.T) {
	ex := Extract("what happened yesterday")

	if ex.Time == nil || ex.Time.Token != "yesterday" {
		t.Fatalf("expected yesterday, got %+v", ex.Time)
	}
}

func TestExtractNumericTimeWindow(t *testing.T) {
	ex := Extract("bugs from 3 days ago")

	if ex.Time == nil {
		t.Fatal("expected a time window")
	}
	if ex.Time.Amount != 3 || ex.Time.Unit != "day" {
		t.Errorf("expected amount 3 unit day, got %+v", ex.Time)
	}
}

func TestExtractQuotedPreservesCase(t *testing.T) {
	ex := Extract(`find issues about "Login Page"`)

	if len(ex.Quoted) != 1 {
		t.Fatalf("expected 1 quoted substring, got %d", len(ex.Quoted))
	}
	if ex.Quoted[0] != "Login Page" {
		t.Errorf("quoted text must keep original case, got %q", ex.Quoted[0])
	}
}

func TestExtractKeywordsDropStopwordsAndConsumed(t *testing.T) {
	ex := Extract("show me the login issues in progress")

	for _, kw := range ex.Keywords {
		if kw == "show" || kw == "the" || kw == "progress" {
			t.Errorf("keyword %q should have been dropped", kw)
		}
	}
	found := false
	for _, kw := range ex.Keywords {
		if kw == "login" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'login' among keywords, got %v", ex.Keywords)
	}
}

func TestExtractKeywordsDropPluralOfConsumed(t *testing.T) {
	// "bug" fired as an issue type; its plural must not resurface as a
	// free-text keyword.
	ex := Extract("find unassigned bugs about login")

	for _, kw := range ex.Keywords {
		if kw == "bugs" {
			t.Errorf("plural of a consumed token must be dropped, got %v", ex.Keywords)
		}
	}
}

func TestExtractKeywordsCappedAtThree(t *testing.T) {
	ex := Extract("alpha bravo charlie delta echo foxtrot")

	if len(ex.Keywords) > 3 {
		t.Errorf("expected at most 3 keywords, got %v", ex.Keywords)
	}
}

func TestExtractEmptyQuery(t *testing.T) {
	ex := Extract("")

	if len(ex.Status) != 0 || len(ex.Assignees) != 0 || ex.Time != nil ||
		ex.Priority != nil || ex.IssueType != nil || len(ex.Keywords) != 0 {
		t.Errorf("empty query must produce the zero extraction, got %+v", ex)
	}
}
