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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
	"github.com/AleutianAI/AleutianTasker/services/llm"
	"github.com/AleutianAI/AleutianTasker/services/tracker"
)

// replyPrefixes are role markers a chat-tuned model may prepend to its
// answer; they are stripped before the text is returned to the user.
var replyPrefixes = []string{"Assistant:", "AI:", "Response:", "Answer:"}

// ModelGenerator wraps a text-generation backend with an unconditional
// pattern fallback.
//
// # Description
//
//	When the backend is available its reply replaces only the response
//	Text; issue count, suggested actions, and chart hint always come from
//	the pattern generator so the response shape is identical on both
//	paths. Any backend failure silently yields the pattern response.
//
// # Thread Safety
//
// Safe for concurrent use.
type ModelGenerator struct {
	generator llm.TextGenerator
	fallback  *Generator
	maxTokens int
	temp      float64
	logger    *slog.Logger
}

// NewModelGenerator creates a model-assisted generator.
//
// # Inputs
//
//   - generator: Inference backend, or nil for pattern-only behavior.
//   - maxTokens, temperature: Generation parameters for replies.
func NewModelGenerator(generator llm.TextGenerator, maxTokens int, temperature float64) *ModelGenerator {
	return &ModelGenerator{
		generator: generator,
		fallback:  NewGenerator(),
		maxTokens: maxTokens,
		temp:      temperature,
		logger:    slog.Default(),
	}
}

// Generate builds the response, preferring the model path.
func (m *ModelGenerator) Generate(ctx context.Context, query string, analysis nlq.QueryAnalysis, issues []tracker.Issue) Response {
	resp := m.fallback.Generate(query, analysis, issues)

	if m.generator == nil || !m.generator.Available() {
		return resp
	}

	text, err := m.modelReply(ctx, query, issues)
	if err != nil {
		m.logger.Warn("Model reply failed, using pattern response",
			slog.String("error", err.Error()),
		)
		return resp
	}

	resp.Text = text
	return resp
}

// modelReply prompts the backend with the query and a project status
// summary, then cleans the reply.
func (m *ModelGenerator) modelReply(ctx context.Context, query string, issues []tracker.Issue) (string, error) {
	stats := computeStats(issues)

	var sb strings.Builder
	sb.WriteString("You are a helpful project assistant. Answer the user's question ")
	sb.WriteString("about their tasks in a friendly, concise way.\n\n")
	fmt.Fprintf(&sb, "Project status: %d tasks total", stats.Total)
	for _, status := range stats.StatusOrder {
		fmt.Fprintf(&sb, ", %d %s", stats.ByStatus[status], status)
	}
	sb.WriteString(".\n")
	if stats.Unassigned > 0 {
		fmt.Fprintf(&sb, "%d tasks are unassigned.\n", stats.Unassigned)
	}
	sb.WriteString("\nUser: " + query + "\nAssistant:")

	reply, err := m.generator.Complete(ctx, sb.String(), llm.CompletionOptions{
		MaxTokens:   m.maxTokens,
		Temperature: m.temp,
		Stop:        []string{"User:"},
	})
	if err != nil {
		return "", err
	}

	cleaned := cleanReply(reply)
	if cleaned == "" {
		return "", fmt.Errorf("respond: model produced an empty reply")
	}
	return cleaned, nil
}

// cleanReply strips role markers and surrounding whitespace from a model
// reply.
func cleanReply(reply string) string {
	text := strings.TrimSpace(reply)
	for changed := true; changed; {
		changed = false
		for _, prefix := range replyPrefixes {
			if strings.HasPrefix(text, prefix) {
				text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
				changed = true
			}
		}
	}
	return text
}
