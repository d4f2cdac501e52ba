// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assistant is the conversational task-query service: it analyzes
// natural language requests, fetches matching issues, and produces answers,
// query-language conversions, and insights.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/AleutianTasker/services/assistant/config"
	"github.com/AleutianAI/AleutianTasker/services/assistant/history"
	"github.com/AleutianAI/AleutianTasker/services/assistant/jql"
	"github.com/AleutianAI/AleutianTasker/services/assistant/nlq"
	"github.com/AleutianAI/AleutianTasker/services/assistant/respond"
	"github.com/AleutianAI/AleutianTasker/services/llm"
	"github.com/AleutianAI/AleutianTasker/services/tracker"
)

// historyContextTurns is how many prior exchanges feed the conversion prompt.
const historyContextTurns = 3

// Service orchestrates the full query pipeline.
//
// # Description
//
//	ProcessQuery is the main entry point: analyze, fetch, respond, and
//	record. The service never surfaces an internal failure to the caller;
//	a panic anywhere in the pipeline degrades to a generic response that
//	still echoes the original query. All collaborators are optional in
//	the sense that their unconfigured states degrade rather than fail.
//
// # Thread Safety
//
// Safe for concurrent use.
type Service struct {
	cfg       config.Settings
	trackerC  *tracker.Client
	converter *jql.Converter
	responder *respond.ModelGenerator
	history   *history.Store
	logger    *slog.Logger
}

// NewService wires the service from settings.
//
// # Outputs
//
//   - *Service: The ready service.
//   - error: Non-nil only when the history store cannot be opened.
func NewService(cfg config.Settings) (*Service, error) {
	store, err := history.Open(cfg.HistoryDir)
	if err != nil {
		return nil, fmt.Errorf("assistant: opening history store: %w", err)
	}

	var generator llm.TextGenerator
	if cfg.ModelBaseURL != "" {
		generator = llm.NewLlamaServerClient(cfg.ModelBaseURL)
	}

	return &Service{
		cfg:       cfg,
		trackerC:  tracker.NewClient(cfg),
		converter: jql.NewConverter(generator, cfg.JiraProjectKey),
		responder: respond.NewModelGenerator(generator, cfg.ModelMaxTokens, cfg.ModelTemperature),
		history:   store,
		logger:    slog.Default(),
	}, nil
}

// Close releases the service's resources.
func (s *Service) Close() error {
	return s.history.Close()
}

// ProcessQuery answers one natural language request.
//
// # Description
//
//	Runs the full pipeline: analysis, issue fetch (unconstrained when the
//	analysis extracted no filters, locally filtered otherwise), response
//	generation, and best-effort history recording. Recording failures are
//	logged and swallowed. A panic in any stage is recovered into a
//	generic apology response; the method never returns an error.
//
// # Inputs
//
//   - ctx: Context for downstream calls.
//   - query: The raw request text.
//
// # Outputs
//
//   - respond.Response: The answer. Always carries the original query.
func (s *Service) ProcessQuery(ctx context.Context, query string) (resp respond.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Query pipeline panicked",
				slog.String("query", query),
				slog.Any("panic", r),
			)
			resp = respond.Response{
				Text:  "I couldn't process that request. Could you rephrase it?",
				Query: query,
			}
		}
	}()

	analysis := nlq.Analyze(query)

	var issues []tracker.Issue
	if analysis.Criteria.IsZero() {
		issues = s.trackerC.Fetch(ctx, nil)
	} else {
		issues = s.trackerC.Fetch(ctx, &analysis.Criteria)
	}

	resp = s.responder.Generate(ctx, query, analysis, issues)

	if _, err := s.history.Append(query, resp.Text); err != nil {
		s.logger.Warn("Recording history entry failed", slog.String("error", err.Error()))
	}

	return resp
}

// AnalyzeQuery exposes the extraction pipeline without fetching issues.
func (s *Service) AnalyzeQuery(query string) nlq.QueryAnalysis {
	return nlq.Analyze(query)
}

// ConvertQuery converts a request into a query-language expression, feeding
// recent history into the prompt as conversation context.
func (s *Service) ConvertQuery(ctx context.Context, query string) jql.Result {
	return s.converter.Convert(ctx, query, s.historyContext())
}

// SearchJQL executes a raw expression against the tracker.
func (s *Service) SearchJQL(ctx context.Context, expression string, startAt, maxResults int) ([]tracker.Issue, int, error) {
	return s.trackerC.Search(ctx, expression, startAt, maxResults)
}

// CreateTask creates a tracker issue from a creation request.
func (s *Service) CreateTask(ctx context.Context, title, description, assignee string) (tracker.Issue, error) {
	return s.trackerC.CreateIssue(ctx, title, description, assignee)
}

// RecentHistory returns the newest history entries.
func (s *Service) RecentHistory(limit int) ([]history.Entry, error) {
	return s.history.Recent(limit)
}

// ClearHistory removes all history entries.
func (s *Service) ClearHistory() error {
	return s.history.Clear()
}

// Suggestions returns example requests for the client UI.
func (s *Service) Suggestions() []string {
	return jql.Suggestions()
}

// historyContext renders the last few exchanges for the conversion prompt.
// Failures yield an empty context; the prompt works without it.
func (s *Service) historyContext() string {
	entries, err := s.history.Recent(historyContextTurns)
	if err != nil || len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	// Recent returns newest first; the prompt wants chronological order.
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "User: %s\n", entries[i].Query)
	}
	return strings.TrimRight(sb.String(), "\n")
}
