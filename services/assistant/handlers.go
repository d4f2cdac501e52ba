// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianTasker/services/assistant/history"
)

// Handlers adapts the service to HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// QueryRequest is the body of POST /v1/assistant/query and /convert.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchRequest is the body of POST /v1/assistant/search.
type SearchRequest struct {
	JQL        string `json:"jql" binding:"required"`
	StartAt    int    `json:"start_at"`
	MaxResults int    `json:"max_results"`
}

// CreateTaskRequest is the body of POST /v1/assistant/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
}

// getOrCreateRequestID returns the inbound X-Request-ID or generates one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleQuery handles POST /v1/assistant/query.
//
// Description:
//
//	Runs the full pipeline for one natural language request and returns
//	the conversational answer. The pipeline never fails internally; the
//	only error responses are for malformed request bodies.
//
// Response:
//
//	200 OK: respond.Response
//	400 Bad Request: Missing or empty query
func (h *Handlers) HandleQuery(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleQuery")

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query is required",
			Code:  "MISSING_QUERY",
		})
		return
	}

	logger.Info("Processing query", slog.Int("query_chars", len(req.Query)))
	resp := h.service.ProcessQuery(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, resp)
}

// HandleAnalyze handles POST /v1/assistant/analyze.
//
// Response:
//
//	200 OK: nlq.QueryAnalysis
//	400 Bad Request: Missing or empty query
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query is required",
			Code:  "MISSING_QUERY",
		})
		return
	}

	c.JSON(http.StatusOK, h.service.AnalyzeQuery(req.Query))
}

// HandleConvert handles POST /v1/assistant/convert.
//
// Description:
//
//	Converts a natural language request into a query-language expression.
//	Conversion never fails; the fallback synthesizer guarantees a valid
//	expression.
//
// Response:
//
//	200 OK: jql.Result
//	400 Bad Request: Missing or empty query
func (h *Handlers) HandleConvert(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleConvert")

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query is required",
			Code:  "MISSING_QUERY",
		})
		return
	}

	result := h.service.ConvertQuery(c.Request.Context(), req.Query)
	logger.Info("Converted query", slog.Bool("model_assisted", result.ModelAssisted))
	c.JSON(http.StatusOK, result)
}

// HandleSearch handles POST /v1/assistant/search.
//
// Response:
//
//	200 OK: {"issues": [...], "total": n}
//	400 Bad Request: Missing expression
//	502 Bad Gateway: Tracker unreachable or unconfigured
func (h *Handlers) HandleSearch(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSearch")

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "jql is required",
			Code:  "MISSING_JQL",
		})
		return
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 50
	}

	issues, total, err := h.service.SearchJQL(c.Request.Context(), req.JQL, req.StartAt, req.MaxResults)
	if err != nil {
		logger.Warn("Search failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: err.Error(),
			Code:  "TRACKER_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "total": total})
}

// HandleCreateTask handles POST /v1/assistant/tasks.
//
// Response:
//
//	201 Created: tracker.Issue
//	400 Bad Request: Missing title
//	502 Bad Gateway: Tracker unreachable or unconfigured
func (h *Handlers) HandleCreateTask(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateTask")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "title is required",
			Code:  "MISSING_TITLE",
		})
		return
	}

	issue, err := h.service.CreateTask(c.Request.Context(), req.Title, req.Description, req.Assignee)
	if err != nil {
		logger.Warn("Task creation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: err.Error(),
			Code:  "TRACKER_ERROR",
		})
		return
	}

	logger.Info("Created task", slog.String("key", issue.Key))
	c.JSON(http.StatusCreated, issue)
}

// HandleHistory handles GET /v1/assistant/history.
//
// Query Parameters:
//
//	limit: Maximum entries to return, default 20 (optional)
func (h *Handlers) HandleHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.service.RecentHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "HISTORY_ERROR",
		})
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// HandleClearHistory handles DELETE /v1/assistant/history.
func (h *Handlers) HandleClearHistory(c *gin.Context) {
	if err := h.service.ClearHistory(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
			Code:  "HISTORY_ERROR",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// HandleSuggestions handles GET /v1/assistant/suggestions.
func (h *Handlers) HandleSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": h.service.Suggestions()})
}

// HandleHealth handles GET /v1/assistant/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
