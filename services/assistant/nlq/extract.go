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
	"regexp"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/assistant/config"
)

// =============================================================================
// Lexical Extractors
// =============================================================================
//
// Every extractor scans an explicit, declared-order table; the first matching
// entry wins for single-valued kinds, and multi-valued kinds collect all
// non-duplicate matches in table order. Precedence therefore lives in the
// table declarations (vocab.yaml and the slices below), never in incidental
// container ordering.

// assigneeCompoundTable maps phrases to ready-made assignee clauses.
// Order matters: more specific phrases come before their substrings.
var assigneeCompoundTable = []struct {
	match  string
	value  string
	clause string
}{
	{"unassigned", "Unassigned", "assignee is EMPTY"},
	{"not assigned", "Unassigned", "assignee is EMPTY"},
	{"no assignee", "Unassigned", "assignee is EMPTY"},
	{"nobody assigned", "Unassigned", "assignee is EMPTY"},
	{"assigned to me", "", "assignee = currentUser()"},
}

// currentUserPattern matches the standalone word "my" anywhere in the query.
// The word boundaries keep words that merely end in "my" ("dummy") from
// reading as a self-reference.
var currentUserPattern = regexp.MustCompile(`\bmy\b`)

// assignedToPattern captures an explicit assignee reference. The capture is
// a username or email, never "me" (handled by the compound table above).
var assignedToPattern = regexp.MustCompile(`assigned to ([a-z][a-z0-9._@-]*)`)

// possessivePattern captures "<name>'s tasks" style references.
var possessivePattern = regexp.MustCompile(`([a-z][a-z0-9._@-]*)'s (?:tasks|issues|tickets|work)`)

// symbolicTimeTable is the declared-order table of symbolic time windows.
// "yesterday" precedes "today" so the longer phrase cannot be shadowed.
var symbolicTimeTable = []string{
	"yesterday",
	"today",
	"this week",
	"last week",
	"this month",
	"last month",
	"this year",
}

// relativeTimePattern captures the parametrized "N days/weeks/months ago"
// form. The digits are copied verbatim into TimeWindow.Amount.
var relativeTimePattern = regexp.MustCompile(`(\d+)\s+(day|week|month)s?\s+ago`)

// Extract runs every lexical extractor over the query and returns the
// combined fragment set.
//
// # Description
//
//	The query is lowercased once for matching; quoted-substring extraction
//	runs against the original text so quotes keep their case. Absent or
//	malformed input never fails: the zero Extraction is a valid "nothing
//	matched" result.
//
// # Inputs
//
//   - query: Raw query text. May be empty.
//
// # Outputs
//
//   - Extraction: All extracted fragments.
//
// # Thread Safety
//
// Safe for concurrent use (tables are immutable after load).
func Extract(query string) Extraction {
	vocab := config.MustLoadVocabulary()
	lower := strings.ToLower(query)

	var ex Extraction
	consumed := newTokenSet()

	ex.Status = extractStatus(lower, vocab, consumed)
	ex.Assignees = extractAssignees(lower, consumed)
	ex.Priority = extractSingle(lower, vocab.Priority, consumed)
	ex.IssueType = extractSingle(lower, vocab.IssueType, consumed)
	ex.Time = extractTimeWindow(lower, consumed)
	ex.Quoted = extractQuoted(query)
	ex.Keywords = extractKeywords(lower, vocab.StopWords, consumed)

	return ex
}

// extractStatus collects status fragments. Compound phrases supersede and
// short-circuit literal matching for the whole kind: "not done" must not
// also produce a literal "Done" match.
func extractStatus(lower string, vocab *config.Vocabulary, consumed *tokenSet) []Fragment {
	for _, entry := range vocab.Status.Compound {
		if strings.Contains(lower, entry.Match) {
			consumed.addPhrase(entry.Match)
			return []Fragment{{Clause: entry.Clause}}
		}
	}

	var out []Fragment
	seen := map[string]bool{}
	for _, entry := range vocab.Status.Literal {
		if !strings.Contains(lower, entry.Match) {
			continue
		}
		consumed.addPhrase(entry.Match)
		if seen[entry.Value] {
			continue
		}
		seen[entry.Value] = true
		out = append(out, Fragment{Value: entry.Value})
	}
	return out
}

// extractAssignees collects assignee fragments: compound phrases first, then
// explicit "assigned to X" and possessive references. Multi-valued with
// first-seen de-duplication.
func extractAssignees(lower string, consumed *tokenSet) []Fragment {
	var out []Fragment
	seen := map[string]bool{}

	add := func(f Fragment) {
		key := f.Value + "|" + f.Clause
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, f)
	}

	for _, entry := range assigneeCompoundTable {
		if strings.Contains(lower, entry.match) {
			consumed.addPhrase(entry.match)
			add(Fragment{Value: entry.value, Clause: entry.clause})
		}
	}

	if currentUserPattern.MatchString(lower) {
		consumed.add("my")
		add(Fragment{Clause: "assignee = currentUser()"})
	}

	for _, m := range assignedToPattern.FindAllStringSubmatch(lower, -1) {
		if m[1] == "me" {
			continue
		}
		consumed.addPhrase("assigned to " + m[1])
		add(Fragment{Value: m[1]})
	}

	for _, m := range possessivePattern.FindAllStringSubmatch(lower, -1) {
		consumed.add(m[1])
		add(Fragment{Value: m[1]})
	}

	return out
}

// extractSingle scans an ordered literal table and returns the first match.
func extractSingle(lower string, table []config.LiteralEntry, consumed *tokenSet) *Fragment {
	for _, entry := range table {
		if strings.Contains(lower, entry.Match) {
			consumed.addPhrase(entry.Match)
			return &Fragment{Value: entry.Value}
		}
	}
	return nil
}

// extractTimeWindow returns at most one time window: symbolic forms take
// precedence over the parametrized numeric form.
func extractTimeWindow(lower string, consumed *tokenSet) *TimeWindow {
	for _, token := range symbolicTimeTable {
		if strings.Contains(lower, token) {
			consumed.addPhrase(token)
			return &TimeWindow{Token: token}
		}
	}

	if m := relativeTimePattern.FindStringSubmatch(lower); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		consumed.addPhrase(m[0])
		consumed.add("ago")
		return &TimeWindow{Token: m[0], Amount: amount, Unit: m[2]}
	}

	return nil
}

// ParseTimeFrame re-parses a stored time-frame token back into a window.
// Tokens come from extractTimeWindow verbatim, so parsing mirrors it:
// symbolic forms first, then the parametrized numeric form. Unknown tokens
// yield nil.
func ParseTimeFrame(token string) *TimeWindow {
	for _, symbolic := range symbolicTimeTable {
		if token == symbolic {
			return &TimeWindow{Token: token}
		}
	}

	if m := relativeTimePattern.FindStringSubmatch(token); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &TimeWindow{Token: m[0], Amount: amount, Unit: m[2]}
	}

	return nil
}

// =============================================================================
// Consumed-token bookkeeping
// =============================================================================

// tokenSet records the individual words of every matched vocabulary phrase
// so keyword extraction can drop tokens already claimed by a typed fragment.
type tokenSet struct {
	words map[string]bool
}

func newTokenSet() *tokenSet {
	return &tokenSet{words: map[string]bool{}}
}

func (s *tokenSet) add(word string) {
	if word != "" {
		s.words[word] = true
	}
}

func (s *tokenSet) addPhrase(phrase string) {
	for _, w := range strings.Fields(phrase) {
		s.add(w)
	}
}

// has also matches a trivial plural of a consumed word so "bugs" is dropped
// when the "bug" vocabulary entry fired.
func (s *tokenSet) has(word string) bool {
	if s.words[word] {
		return true
	}
	singular := strings.TrimSuffix(word, "s")
	return singular != word && s.words[singular]
}
