// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package nlq turns free-form query text into typed fragments, filter
// criteria, and an intent classification.
//
// It is the single shared extraction module: both the query-language
// synthesizer and the conversational response path consume its output, so
// the vocabulary tables cannot diverge between the two. The package is pure:
// no I/O, no shared mutable state, safe for concurrent use.
package nlq

// Intent is the high-level purpose classification of a query.
type Intent string

const (
	IntentFilter    Intent = "filter"
	IntentSummarize Intent = "summarize"
	IntentCompare   Intent = "compare"
	IntentCreate    Intent = "create"
	IntentAnalyze   Intent = "analyze"
)

// Fragment is one typed piece of information extracted from query text.
//
// Two pattern classes produce fragments. Literal matches carry a canonical
// Value ("done" -> "Done") and an empty Clause. Compound matches carry a
// ready-made query clause ("not done" -> `status != "Done"`) and may carry a
// Value when the phrase also has a usable local-filtering form ("unassigned"
// -> Value "Unassigned", Clause `assignee is EMPTY`).
type Fragment struct {
	Value  string
	Clause string
}

// Compound reports whether the fragment carries a ready-made clause.
func (f Fragment) Compound() bool { return f.Clause != "" }

// TimeWindow is an extracted time constraint.
//
// Symbolic forms ("last week") set only Token. The parametrized numeric form
// ("3 days ago") additionally sets Amount and Unit; Amount is copied verbatim
// from the captured digits.
type TimeWindow struct {
	Token  string
	Amount int
	Unit   string // "day", "week" or "month"; empty for symbolic forms
}

// Extraction is the full set of fragments pulled from one query.
//
// Status and Assignees are multi-valued; Priority, IssueType and Time hold
// at most one match (first table entry wins).
type Extraction struct {
	Status    []Fragment
	Assignees []Fragment
	Priority  *Fragment
	IssueType *Fragment
	Time      *TimeWindow

	// Keywords are residual free-text tokens (max 3, stop words and
	// vocabulary-consumed tokens removed, first-seen order).
	Keywords []string

	// Quoted are substrings quoted in the original query, case preserved.
	Quoted []string
}

// FilterCriteria is the structured filter assembled from an Extraction.
//
// Constructed fresh per query and immutable once built. Empty fields mean
// "no constraint on this dimension". A criteria value of "Unassigned" in
// Assignee is the sentinel for issues without an assignee.
type FilterCriteria struct {
	Status    []string `json:"status,omitempty"`
	Assignee  []string `json:"assignee,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	TimeFrame string   `json:"time_frame,omitempty"`
	Priority  string   `json:"priority,omitempty"`
	IssueType string   `json:"issue_type,omitempty"`
}

// IsZero reports whether no filtering was requested at all.
//
// Callers must branch on this before fetching: a zero criteria means an
// unconstrained fetch, while a non-zero criteria that matches nothing must
// yield an empty result set, never fall back to an unconstrained fetch.
func (c FilterCriteria) IsZero() bool {
	return len(c.Status) == 0 &&
		len(c.Assignee) == 0 &&
		len(c.Keywords) == 0 &&
		c.TimeFrame == "" &&
		c.Priority == "" &&
		c.IssueType == ""
}

// QueryAnalysis is the per-query result of Analyze. One instance is produced
// per incoming query and consumed immediately; it is never cached.
type QueryAnalysis struct {
	Intent   Intent         `json:"intent"`
	Criteria FilterCriteria `json:"filter_criteria"`

	// Visualization is one of "pie", "bar", "timeline", "table", or empty.
	Visualization string `json:"visualization_hint,omitempty"`

	// Confidence is informational only; no branching depends on its value.
	Confidence float64 `json:"confidence"`

	// Extraction carries the raw fragments for the query-language
	// synthesizer, which needs compound clauses the criteria cannot hold.
	Extraction Extraction `json:"-"`
}
