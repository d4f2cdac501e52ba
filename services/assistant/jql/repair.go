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

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// Validation and Repair
// =============================================================================

var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	// emptyAssigneePattern matches assignee comparisons against an empty
	// string literal, which Jira rejects; the EMPTY keyword is required.
	emptyAssigneePattern = regexp.MustCompile(`assignee\s*=\s*(""|'')`)

	// unquotedValuePattern matches field = value where the value is a bare
	// word sequence that should have been quoted. Function calls never match
	// (the value class excludes parentheses); the EMPTY keyword is excluded
	// by the repair step itself.
	unquotedValuePattern = regexp.MustCompile(`\b(status|priority|assignee)\s*(=|!=)\s*([A-Za-z][A-Za-z ]*?)(\s+(?:AND|OR|ORDER)\b|$)`)

	// truncatedClausePattern matches a dangling field name directly before
	// the ordering, the typical shape of a cut-off model completion. The
	// bare word must open the expression or follow a connective so that
	// legitimate keywords (EMPTY, a bare project key) are not mistaken
	// for truncation.
	truncatedClausePattern = regexp.MustCompile(`(?:^|\s(?:AND|OR)\s+)[a-zA-Z]+\s+ORDER BY\b`)
)

// rejectedOutputs are whole-string model outputs that mean "no query".
var rejectedOutputs = map[string]bool{
	"":      true,
	"none":  true,
	"null":  true,
	"empty": true,
	"n/a":   true,
}

// Repair normalizes a raw query-language expression, typically a model
// completion, into a form the tracker will accept.
//
// # Description
//
//	Steps run in a fixed order: collapse whitespace, strip one layer of
//	wrapping quotes, reject placeholder outputs, discard candidates with a
//	truncated trailing clause (substituting the minimal valid query),
//	rewrite empty-string assignee comparisons to the EMPTY keyword, quote
//	bare field values, and guarantee a terminal ordering. The pass is
//	idempotent: repairing an already-repaired expression is a no-op.
//
// # Inputs
//
//   - raw: The candidate expression.
//
// # Outputs
//
//   - string: The repaired expression.
//   - error: Non-nil when the input is a rejected placeholder and no
//     expression can be recovered.
func Repair(raw string) (string, error) {
	s := whitespacePattern.ReplaceAllString(strings.TrimSpace(raw), " ")

	s = stripWrappingQuotes(s)

	if rejectedOutputs[strings.ToLower(s)] {
		return "", fmt.Errorf("jql: model produced no usable expression: %q", raw)
	}

	// A truncated clause means the completion was cut off mid-expression;
	// the rest of the candidate cannot be trusted either. Discard it all
	// and fall back to the minimal valid query.
	if truncatedClausePattern.MatchString(s) {
		return defaultOrdering, nil
	}

	s = emptyAssigneePattern.ReplaceAllString(s, "assignee is EMPTY")
	s = quoteBareValues(s)

	if !strings.Contains(s, "ORDER BY") {
		if s == "" {
			s = defaultOrdering
		} else {
			s = s + " " + defaultOrdering
		}
	}

	return s, nil
}

// stripWrappingQuotes removes one layer of quotes enclosing the whole
// expression. Internal quotes are untouched.
func stripWrappingQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			inner := s[1 : len(s)-1]
			// Only strip when the quotes actually wrap: the inner text
			// must not close the quote early ("a" OR text ~ "b").
			if !strings.ContainsRune(inner, rune(first)) {
				return strings.TrimSpace(inner)
			}
		}
	}
	return s
}

// quoteBareValues quotes unquoted status, priority, and assignee values.
// currentUser() calls, the EMPTY keyword, and already-quoted values pass
// through unchanged.
func quoteBareValues(s string) string {
	return unquotedValuePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := unquotedValuePattern.FindStringSubmatch(m)
		field, op, value, tail := sub[1], sub[2], strings.TrimSpace(sub[3]), sub[4]

		if strings.ToUpper(value) == "EMPTY" {
			return m
		}
		return fmt.Sprintf("%s %s %q%s", field, op, value, tail)
	})
}
