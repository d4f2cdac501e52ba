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

import "strings"

// BuildCriteria assembles a FilterCriteria from extracted fragments.
//
// # Description
//
//	Only plain fragment values land in the criteria; compound fragments
//	without a local-filtering value (a negated status, currentUser()) are
//	carried solely by the Extraction for the query-language synthesizer.
//	Keywords combine residual tokens with quoted substrings, quoted first
//	since they are the stronger signal, de-duplicated case-insensitively.
//
// # Inputs
//
//   - ex: Output of Extract.
//
// # Outputs
//
//   - FilterCriteria: The assembled, de-duplicated criteria.
func BuildCriteria(ex Extraction) FilterCriteria {
	var c FilterCriteria

	for _, f := range ex.Status {
		if f.Value != "" {
			c.Status = appendUnique(c.Status, f.Value)
		}
	}
	for _, f := range ex.Assignees {
		if f.Value != "" {
			c.Assignee = appendUnique(c.Assignee, f.Value)
		}
	}
	if ex.Priority != nil {
		c.Priority = ex.Priority.Value
	}
	if ex.IssueType != nil {
		c.IssueType = ex.IssueType.Value
	}
	if ex.Time != nil {
		c.TimeFrame = ex.Time.Token
	}

	for _, q := range ex.Quoted {
		c.Keywords = appendUnique(c.Keywords, q)
	}
	for _, k := range ex.Keywords {
		c.Keywords = appendUnique(c.Keywords, k)
	}

	return c
}

// appendUnique appends value unless an equal-fold entry already exists,
// preserving first-seen order.
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}
