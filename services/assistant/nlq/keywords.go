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
	"strings"
)

// maxKeywords caps how many residual free-text tokens survive extraction.
// More than three rarely narrows a text search; it mostly adds noise.
const maxKeywords = 3

// minKeywordLen drops short function words and stray fragments.
const minKeywordLen = 3

// quotedPattern captures double- or single-quoted substrings.
var quotedPattern = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// wordPattern splits the lowercased query into candidate tokens.
var wordPattern = regexp.MustCompile(`[a-z0-9][a-z0-9._-]*`)

// extractKeywords returns the residual free-text tokens of the query:
// stop words, vocabulary-consumed tokens, and tokens shorter than three
// characters are removed; at most three survive, de-duplicated, in their
// original relative order.
func extractKeywords(lower string, stopWords []string, consumed *tokenSet) []string {
	stop := map[string]bool{}
	for _, w := range stopWords {
		stop[w] = true
	}

	var out []string
	seen := map[string]bool{}
	for _, tok := range wordPattern.FindAllString(lower, -1) {
		if len(tok) < minKeywordLen {
			continue
		}
		if stop[tok] || consumed.has(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// extractQuoted returns quoted substrings verbatim from the original,
// non-lowercased query.
func extractQuoted(original string) []string {
	var out []string
	for _, m := range quotedPattern.FindAllStringSubmatch(original, -1) {
		text := m[1]
		if text == "" {
			text = m[2]
		}
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}
