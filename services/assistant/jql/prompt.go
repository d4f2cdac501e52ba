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
	"strings"
	"text/template"
)

// conversionPromptText is the few-shot prompt for model-assisted query
// conversion. The examples pin the expected output shape: one JQL line, one
// Explanation line, nothing else.
const conversionPromptText = `You are an expert in the Jira Query Language (JQL).
Convert the user's natural language request into a single valid JQL query.

Rules:
- Output exactly two lines: "JQL: <query>" and "Explanation: <one sentence>".
- Quote string values: status = "In Progress", never status = In Progress.
- Use 'assignee is EMPTY' for unassigned issues, never assignee = "".
- Use currentUser() when the request refers to the requester's own issues.
- End every query with "ORDER BY created DESC".
{{- if .ProjectKey}}
- Scope every query to project {{.ProjectKey}}.
{{- end}}

Examples:

Request: show me all bugs in progress
JQL: {{if .ProjectKey}}project = {{.ProjectKey}} AND {{end}}status = "In Progress" AND issuetype = "Bug" ORDER BY created DESC
Explanation: Filters for bug-type issues currently in progress.

Request: unassigned high priority tasks
JQL: {{if .ProjectKey}}project = {{.ProjectKey}} AND {{end}}assignee is EMPTY AND priority = "High" ORDER BY created DESC
Explanation: Finds high priority issues that have no assignee.

Request: what did I finish last week
JQL: {{if .ProjectKey}}project = {{.ProjectKey}} AND {{end}}assignee = currentUser() AND status = "Done" AND created >= startOfWeek(-1w) AND created < startOfWeek() ORDER BY created DESC
Explanation: Lists the requester's issues completed during the previous week.
{{- if .Context}}

Conversation context:
{{.Context}}
{{- end}}

Request: {{.Query}}
`

var conversionPrompt = template.Must(template.New("jql-conversion").Parse(conversionPromptText))

type promptData struct {
	Query      string
	Context    string
	ProjectKey string
}

// buildConversionPrompt renders the few-shot prompt for one request.
func buildConversionPrompt(query, context, projectKey string) (string, error) {
	var sb strings.Builder
	err := conversionPrompt.Execute(&sb, promptData{
		Query:      query,
		Context:    context,
		ProjectKey: projectKey,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
