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
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
	"github.com/AleutianAI/AleutianTasker/services/llm"
)

var tracer = otel.Tracer("aleutian.tasker.jql")

// Converter turns natural language into query-language expressions.
//
// # Description
//
//	Model-first with an unconditional pattern fallback: if an inference
//	backend is available its completion is parsed and repaired; any
//	failure along that path (unavailable backend, transport error,
//	unparseable or rejected output) falls through to the deterministic
//	pattern synthesizer. The converter therefore always produces a valid
//	expression and never returns an error to its caller.
//
// # Thread Safety
//
// Safe for concurrent use.
type Converter struct {
	generator  llm.TextGenerator
	projectKey string
	logger     *slog.Logger
}

// NewConverter creates a converter.
//
// # Inputs
//
//   - generator: Inference backend, or nil for pattern-only conversion.
//   - projectKey: Project scope for synthesized expressions; may be empty.
func NewConverter(generator llm.TextGenerator, projectKey string) *Converter {
	return &Converter{
		generator:  generator,
		projectKey: projectKey,
		logger:     slog.Default(),
	}
}

// Result is the outcome of one conversion.
type Result struct {
	// JQL is the final expression; always valid and never empty.
	JQL string `json:"jql"`

	// Explanation is a one-sentence description of what the query matches.
	Explanation string `json:"explanation"`

	// ModelAssisted reports which path produced the expression.
	ModelAssisted bool `json:"model_assisted"`
}

// Convert produces a query-language expression for the request.
//
// # Inputs
//
//   - ctx: Context for the model call.
//   - query: The natural language request.
//   - conversationContext: Optional prior-turn context for the prompt.
//
// # Outputs
//
//   - Result: The expression, its explanation, and the producing path.
func (c *Converter) Convert(ctx context.Context, query, conversationContext string) Result {
	ctx, span := tracer.Start(ctx, "jql.Convert",
		trace.WithAttributes(attribute.Int("query_chars", len(query))))
	defer span.End()

	if c.generator != nil && c.generator.Available() {
		start := time.Now()
		result, err := c.convertWithModel(ctx, query, conversationContext)
		conversionLatency.WithLabelValues("model").Observe(time.Since(start).Seconds())
		if err == nil {
			conversionTotal.WithLabelValues("model", "ok").Inc()
			span.SetAttributes(attribute.String("path", "model"))
			return result
		}
		conversionTotal.WithLabelValues("model", "error").Inc()
		c.logger.Warn("Model conversion failed, using pattern synthesizer",
			slog.String("error", err.Error()),
		)
	}

	start := time.Now()
	result := c.convertWithPatterns(query)
	conversionLatency.WithLabelValues("pattern").Observe(time.Since(start).Seconds())
	conversionTotal.WithLabelValues("pattern", "ok").Inc()
	span.SetAttributes(attribute.String("path", "pattern"))
	return result
}

// convertWithModel runs the few-shot prompt through the inference backend
// and parses the two-line reply.
func (c *Converter) convertWithModel(ctx context.Context, query, conversationContext string) (Result, error) {
	prompt, err := buildConversionPrompt(query, conversationContext, c.projectKey)
	if err != nil {
		return Result{}, fmt.Errorf("jql: building conversion prompt: %w", err)
	}

	reply, err := c.generator.Complete(ctx, prompt, llm.CompletionOptions{
		MaxTokens:   256,
		Temperature: 0.1,
		Stop:        []string{"Request:"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("jql: model completion: %w", err)
	}

	rawJQL, explanation := parseModelReply(reply)
	if rawJQL == "" {
		return Result{}, fmt.Errorf("jql: no expression found in model reply")
	}

	repaired, err := Repair(rawJQL)
	if err != nil {
		return Result{}, err
	}

	if explanation == "" {
		explanation = "Query generated from your request."
	}

	return Result{JQL: repaired, Explanation: explanation, ModelAssisted: true}, nil
}

// parseModelReply extracts the "JQL:" and "Explanation:" lines. When the
// reply carries no "JQL:" prefix, the first line containing a query keyword
// is taken as the expression instead.
func parseModelReply(reply string) (jqlLine, explanation string) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "JQL:"):
			jqlLine = strings.TrimSpace(strings.TrimPrefix(line, "JQL:"))
		case strings.HasPrefix(line, "Explanation:"):
			explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		}
	}
	if jqlLine != "" {
		return jqlLine, explanation
	}

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "order by") ||
			strings.Contains(lower, "project =") ||
			strings.Contains(lower, "status") ||
			strings.Contains(lower, "assignee") {
			return line, explanation
		}
	}
	return "", explanation
}

// convertWithPatterns is the deterministic fallback: full lexical extraction
// followed by clause synthesis.
func (c *Converter) convertWithPatterns(query string) Result {
	ex := nlq.Extract(query)
	expr := Synthesize(ex, c.projectKey)
	return Result{
		JQL:           expr,
		Explanation:   explainExtraction(ex),
		ModelAssisted: false,
	}
}

// explainExtraction produces a one-sentence description of the synthesized
// expression from its fragments.
func explainExtraction(ex nlq.Extraction) string {
	var parts []string
	if len(ex.Status) > 0 {
		parts = append(parts, "status")
	}
	if len(ex.Assignees) > 0 {
		parts = append(parts, "assignee")
	}
	if ex.Priority != nil {
		parts = append(parts, "priority")
	}
	if ex.IssueType != nil {
		parts = append(parts, "issue type")
	}
	if ex.Time != nil {
		parts = append(parts, "time frame")
	}
	if len(ex.Keywords) > 0 || len(ex.Quoted) > 0 {
		parts = append(parts, "keywords")
	}

	if len(parts) == 0 {
		return "Lists the most recently created issues."
	}
	return "Filters issues by " + strings.Join(parts, ", ") + ", newest first."
}

// Suggestions returns example requests the converter handles well.
func Suggestions() []string {
	return []string{
		"Show me all tasks in progress",
		"Find unassigned bugs",
		"What are the high priority issues?",
		"Show tasks created this week",
		"What is assigned to me?",
		"Find issues about login",
	}
}
