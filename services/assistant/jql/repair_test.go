// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package jql

import "testing"

func TestRepairRejectsPlaceholders(t *testing.T) {
	for _, raw := range []string{"", "  ", "none", "NULL", "empty", "n/a"} {
		if _, err := Repair(raw); err == nil {
			t.Errorf("Repair(%q) should have been rejected", raw)
		}
	}
}

func TestRepairCollapsesWhitespace(t *testing.T) {
	got, err := Repair("status =   \"Done\"\n  ORDER BY created DESC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `status = "Done" ORDER BY created DESC` {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}

func TestRepairStripsWrappingQuotes(t *testing.T) {
	got, err := Repair("`project = TASK ORDER BY created DESC`")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "project = TASK ORDER BY created DESC" {
		t.Errorf("wrapping quotes not stripped: %q", got)
	}
}

func TestRepairKeepsInternalQuotes(t *testing.T) {
	in := `status = "Done" ORDER BY created DESC`
	got, err := Repair(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("internal quotes mangled: %q", got)
	}
}

func TestRepairRewritesEmptyAssignee(t *testing.T) {
	got, err := Repair(`assignee = "" ORDER BY created DESC`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "assignee is EMPTY ORDER BY created DESC" {
		t.Errorf("empty assignee not rewritten: %q", got)
	}
}

func TestRepairQuotesBareValues(t *testing.T) {
	got, err := Repair("status = In Progress AND priority = High ORDER BY created DESC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `status = "In Progress" AND priority = "High" ORDER BY created DESC`
	if got != want {
		t.Errorf("bare values not quoted:\n got %q\nwant %q", got, want)
	}
}

func TestRepairLeavesFunctionsAndEmptyKeyword(t *testing.T) {
	in := "assignee = currentUser() AND assignee is EMPTY ORDER BY created DESC"
	got, err := Repair(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("function call or EMPTY keyword mangled: %q", got)
	}
}

func TestRepairAppendsMissingOrdering(t *testing.T) {
	got, err := Repair(`status = "Done"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `status = "Done" ORDER BY created DESC` {
		t.Errorf("ordering not appended: %q", got)
	}
}

func TestRepairDiscardsTruncatedCandidate(t *testing.T) {
	// A dangling field name before the ordering means the completion was
	// cut off; the whole candidate is replaced by the minimal valid query.
	got, err := Repair(`status = "Done" AND assignee ORDER BY created DESC`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ORDER BY created DESC" {
		t.Errorf("truncated candidate not discarded: %q", got)
	}
}

func TestRepairKeepsValidCandidateWithBareProjectKey(t *testing.T) {
	in := "project = TASK ORDER BY created DESC"
	got, err := Repair(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("valid candidate mangled: %q", got)
	}
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		`status = In Progress`,
		`assignee = "" AND priority = High`,
		"`project = TASK`",
		`status = "Done" AND assignee ORDER BY created DESC`,
		`assignee = currentUser() ORDER BY created DESC`,
	}

	for _, raw := range inputs {
		once, err := Repair(raw)
		if err != nil {
			t.Fatalf("Repair(%q): %v", raw, err)
		}
		twice, err := Repair(once)
		if err != nil {
			t.Fatalf("second Repair(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q:\n once %q\ntwice %q", raw, once, twice)
		}
	}
}
