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
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/tracker"
)

// =============================================================================
// Insight Rules
// =============================================================================

// projectStats is a single deterministic tally over one issue set. All
// derived texts in the package read from one of these so counts can never
// disagree between a breakdown and an insight in the same response.
type projectStats struct {
	Total      int
	ByStatus   map[string]int
	ByAssignee map[string]int

	// StatusOrder and AssigneeOrder preserve first-seen iteration order so
	// identical issue sets always render identical text.
	StatusOrder   []string
	AssigneeOrder []string

	Done       int
	InProgress int
	Unassigned int
}

func computeStats(issues []tracker.Issue) projectStats {
	stats := projectStats{
		ByStatus:   map[string]int{},
		ByAssignee: map[string]int{},
		Total:      len(issues),
	}

	for _, issue := range issues {
		if _, ok := stats.ByStatus[issue.Status]; !ok {
			stats.StatusOrder = append(stats.StatusOrder, issue.Status)
		}
		stats.ByStatus[issue.Status]++

		if _, ok := stats.ByAssignee[issue.Assignee]; !ok {
			stats.AssigneeOrder = append(stats.AssigneeOrder, issue.Assignee)
		}
		stats.ByAssignee[issue.Assignee]++

		// Only the literal Done status counts toward completion; other
		// terminal statuses still appear in the per-status breakdown.
		switch strings.ToLower(issue.Status) {
		case "done":
			stats.Done++
		case "in progress":
			stats.InProgress++
		}
		if issue.Assignee == tracker.UnassignedSentinel || issue.Assignee == "" {
			stats.Unassigned++
		}
	}

	return stats
}

// completionRate is Done over Total in percent. Zero issues means zero.
func (s projectStats) completionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total) * 100
}

// insights applies the rule set to the stats and returns the texts of every
// rule that fired, in fixed rule order.
//
// Rules:
//   - completion below 30 percent: project in early stages
//   - completion above 70 percent: project nearing completion
//     (both suppressed when the set is empty)
//   - exactly one distinct assignee: concentration warning, otherwise any
//     unassigned issues produce a count callout (either-or pair)
//   - more than half the issues in progress: overload warning
func insights(stats projectStats) []string {
	var out []string

	if stats.Total > 0 {
		rate := stats.completionRate()
		if rate < 30 {
			out = append(out, fmt.Sprintf(
				"The project is in its early stages with %.0f%% of tasks completed.", rate))
		} else if rate > 70 {
			out = append(out, fmt.Sprintf(
				"The project is nearing completion with %.0f%% of tasks done.", rate))
		}
	}

	// Single-assignee and unassigned are an either-or pair: when every
	// issue sits with one person the unassigned callout is redundant.
	if len(stats.AssigneeOrder) == 1 &&
		stats.AssigneeOrder[0] != tracker.UnassignedSentinel && stats.AssigneeOrder[0] != "" {
		out = append(out, fmt.Sprintf(
			"All work is concentrated on %s; consider distributing tasks.", stats.AssigneeOrder[0]))
	} else if stats.Unassigned > 0 {
		noun := "tasks"
		if stats.Unassigned == 1 {
			noun = "task"
		}
		out = append(out, fmt.Sprintf(
			"There are %d unassigned %s that need an owner.", stats.Unassigned, noun))
	}

	if stats.Total > 0 && stats.InProgress*2 > stats.Total {
		out = append(out, fmt.Sprintf(
			"Over half the tasks (%d of %d) are in progress at once, which may indicate overload.",
			stats.InProgress, stats.Total))
	}

	return out
}

// sortedNames returns the keys of a count map in descending count order,
// ties broken alphabetically for deterministic output.
func sortedNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
