// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"strings"
	"testing"
)

func TestLoadVocabulary(t *testing.T) {
	v, err := LoadVocabulary()
	if err != nil {
		t.Fatalf("loading vocabulary: %v", err)
	}

	if len(v.Status.Literal) == 0 || len(v.Status.Compound) == 0 {
		t.Error("expected status tables to be populated")
	}
	if len(v.Priority) == 0 || len(v.IssueType) == 0 {
		t.Error("expected priority and issue type tables to be populated")
	}
	if len(v.Intents.Create) == 0 || len(v.Intents.Summarize) == 0 {
		t.Error("expected intent trigger groups to be populated")
	}
	if len(v.StopWords) == 0 {
		t.Error("expected stop words")
	}
}

func TestLoadVocabularyReturnsCachedInstance(t *testing.T) {
	first, err := LoadVocabulary()
	if err != nil {
		t.Fatalf("loading vocabulary: %v", err)
	}
	second, _ := LoadVocabulary()
	if first != second {
		t.Error("expected the cached instance on the second load")
	}
}

func TestVocabularyMatchesAreLowercase(t *testing.T) {
	v := MustLoadVocabulary()

	check := func(table string, entries []LiteralEntry) {
		for _, e := range entries {
			if e.Match != strings.ToLower(e.Match) {
				t.Errorf("%s match %q must be lowercase", table, e.Match)
			}
		}
	}
	check("status", v.Status.Literal)
	check("priority", v.Priority)
	check("issuetype", v.IssueType)
	check("visualization", v.Visualization)
}

func TestVocabularyPrecedenceOrdering(t *testing.T) {
	v := MustLoadVocabulary()

	// "pie chart" must precede "pie" so the specific phrase is never
	// shadowed by its substring.
	pieIdx, pieChartIdx := -1, -1
	for i, e := range v.Visualization {
		switch e.Match {
		case "pie":
			pieIdx = i
		case "pie chart":
			pieChartIdx = i
		}
	}
	if pieChartIdx < 0 || pieIdx < 0 || pieChartIdx > pieIdx {
		t.Errorf("pie chart (%d) must precede pie (%d)", pieChartIdx, pieIdx)
	}

	// "highest priority" must precede "high priority".
	highIdx, highestIdx := -1, -1
	for i, e := range v.Priority {
		switch e.Match {
		case "high priority":
			highIdx = i
		case "highest priority":
			highestIdx = i
		}
	}
	if highestIdx < 0 || highIdx < 0 || highestIdx > highIdx {
		t.Errorf("highest priority (%d) must precede high priority (%d)", highestIdx, highIdx)
	}
}
