// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the assistant's runtime settings and the natural
// language vocabulary tables used by query extraction.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Settings contains runtime configuration for the assistant service.
//
// # Description
//
//	All fields are read from environment variables. Missing tracker or
//	model configuration is not an error: the service degrades to its
//	built-in issue set and pattern-based text generation.
type Settings struct {
	// JiraServer is the base URL of the tracker (e.g. https://x.atlassian.net).
	// Empty means the tracker client is unconfigured.
	JiraServer string

	// JiraUsername and JiraAPIToken are the basic-auth credentials.
	JiraUsername string
	JiraAPIToken string

	// JiraProjectKey scopes every synthesized query to one project.
	// Empty means no project clause is emitted.
	JiraProjectKey string

	// ModelBaseURL is the base URL of the local inference server
	// (llama.cpp llama-server compatible). Empty disables the model path.
	ModelBaseURL string

	// ModelMaxTokens caps completion length for conversational replies.
	ModelMaxTokens int

	// ModelTemperature is the sampling temperature for conversational replies.
	ModelTemperature float64

	// HistoryDir is the BadgerDB directory for conversation history.
	// Empty selects an in-memory store.
	HistoryDir string
}

// LoadSettings reads settings from the environment.
//
// # Description
//
//	Never fails. Unset tracker or model variables produce a partially
//	configured Settings; the owning components check their own fields
//	and degrade gracefully, logging what is missing.
//
// # Outputs
//
//   - Settings: The populated settings.
func LoadSettings() Settings {
	s := Settings{
		JiraServer:       strings.TrimRight(os.Getenv("JIRA_SERVER"), "/"),
		JiraUsername:     os.Getenv("JIRA_USERNAME"),
		JiraAPIToken:     os.Getenv("JIRA_API_TOKEN"),
		JiraProjectKey:   os.Getenv("JIRA_PROJECT_KEY"),
		ModelBaseURL:     strings.TrimRight(os.Getenv("MODEL_BASE_URL"), "/"),
		ModelMaxTokens:   envInt("MODEL_MAX_TOKENS", 512),
		ModelTemperature: envFloat("MODEL_TEMPERATURE", 0.7),
		HistoryDir:       os.Getenv("HISTORY_DIR"),
	}

	if s.JiraServer == "" {
		slog.Warn("Tracker credentials not configured, using built-in issue set")
	}
	if s.ModelBaseURL == "" {
		slog.Info("MODEL_BASE_URL not set, pattern-based generation only")
	}

	return s
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default",
			slog.String("key", key),
			slog.String("value", raw),
		)
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("Invalid float in environment, using default",
			slog.String("key", key),
			slog.String("value", raw),
		)
		return fallback
	}
	return v
}
