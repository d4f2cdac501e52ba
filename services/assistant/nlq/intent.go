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
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/assistant/config"
)

// =============================================================================
// Intent Classification
// =============================================================================

// ClassifyIntent assigns exactly one intent to the query.
//
// # Description
//
//	Trigger groups are evaluated in fixed priority: create > summarize >
//	compare > analyze, with "filter" as the default. The ordering is a
//	design decision, not an optimization: a creation request must never be
//	misclassified as a filter even when it also contains status words
//	("create task: mark login as done").
//
// # Inputs
//
//   - lower: The lowercased query text.
//
// # Outputs
//
//   - Intent: The single winning intent.
func ClassifyIntent(lower string) Intent {
	vocab := config.MustLoadVocabulary()

	switch {
	case matchesAny(lower, vocab.Intents.Create):
		return IntentCreate
	case matchesAny(lower, vocab.Intents.Summarize):
		return IntentSummarize
	case matchesAny(lower, vocab.Intents.Compare):
		return IntentCompare
	case matchesAny(lower, vocab.Intents.Analyze):
		return IntentAnalyze
	default:
		return IntentFilter
	}
}

func matchesAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// classifyVisualization returns the first matching chart hint, or empty.
func classifyVisualization(lower string) string {
	vocab := config.MustLoadVocabulary()
	for _, entry := range vocab.Visualization {
		if strings.Contains(lower, entry.Match) {
			return entry.Value
		}
	}
	return ""
}

// =============================================================================
// Full Query Analysis
// =============================================================================

// Analyze runs the complete extraction pipeline over one query.
//
// # Description
//
//	Lowercases once, extracts fragments, assembles criteria, classifies
//	intent and visualization hint, and scores a confidence value. The
//	confidence is informational only; nothing downstream branches on it
//	beyond its existence.
//
// # Inputs
//
//   - query: Raw query text.
//
// # Outputs
//
//   - QueryAnalysis: The complete per-query analysis.
//
// # Thread Safety
//
// Safe for concurrent use; no state is shared between invocations.
func Analyze(query string) QueryAnalysis {
	lower := strings.ToLower(query)
	ex := Extract(query)
	criteria := BuildCriteria(ex)
	intent := ClassifyIntent(lower)

	return QueryAnalysis{
		Intent:        intent,
		Criteria:      criteria,
		Visualization: classifyVisualization(lower),
		Confidence:    scoreConfidence(intent, criteria),
		Extraction:    ex,
	}
}

// scoreConfidence produces a coarse [0,1] signal: higher when an explicit
// intent trigger fired and for every populated criteria dimension.
func scoreConfidence(intent Intent, c FilterCriteria) float64 {
	score := 0.4
	if intent != IntentFilter {
		score = 0.7
	}

	if len(c.Status) > 0 {
		score += 0.05
	}
	if len(c.Assignee) > 0 {
		score += 0.05
	}
	if len(c.Keywords) > 0 {
		score += 0.05
	}
	if c.TimeFrame != "" {
		score += 0.05
	}
	if c.Priority != "" {
		score += 0.05
	}
	if c.IssueType != "" {
		score += 0.05
	}

	if score > 0.95 {
		score = 0.95
	}
	return score
}
