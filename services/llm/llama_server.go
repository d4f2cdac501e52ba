// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	completionPath = "/completion"
	healthPath     = "/health"

	// defaultTimeout bounds a single completion call. The core treats the
	// generator as a blocking external call with no retry; the deadline
	// lives here.
	defaultTimeout = 60 * time.Second
)

type llamaRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict,omitempty"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

type llamaResponse struct {
	Content string `json:"content"`
}

// LlamaServerClient talks to a local llama.cpp llama-server instance over
// its HTTP completion API.
//
// # Description
//
//	The health probe runs lazily on the first Available call and is cached
//	for the process lifetime: the model handle is initialize-once /
//	read-many. An unconfigured client (empty base URL) is permanently
//	unavailable and never issues a request.
//
// # Thread Safety
//
// Safe for concurrent use.
type LlamaServerClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger

	probeOnce sync.Once
	healthy   bool
}

// NewLlamaServerClient creates a client for the given base URL.
//
// # Inputs
//
//   - baseURL: Server base URL (e.g. http://localhost:8081). Empty produces
//     a client that always reports unavailable.
//
// # Outputs
//
//   - *LlamaServerClient: The configured client.
func NewLlamaServerClient(baseURL string) *LlamaServerClient {
	return &LlamaServerClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     slog.Default(),
	}
}

// Available reports whether the inference server answered its health check.
// The probe runs once; subsequent calls return the cached result.
func (c *LlamaServerClient) Available() bool {
	if c.baseURL == "" {
		return false
	}

	c.probeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
		if err != nil {
			c.logger.Warn("llama: building health request failed", slog.String("error", err.Error()))
			return
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("llama: inference server unreachable, model path disabled",
				slog.String("base_url", c.baseURL),
				slog.String("error", err.Error()),
			)
			return
		}
		defer resp.Body.Close()

		c.healthy = resp.StatusCode == http.StatusOK
		if c.healthy {
			c.logger.Info("llama: inference server available", slog.String("base_url", c.baseURL))
		} else {
			c.logger.Warn("llama: health check failed", slog.Int("status", resp.StatusCode))
		}
	})

	return c.healthy
}

// Complete generates text for the prompt.
//
// # Inputs
//
//   - ctx: Context for cancellation; the client also applies its own timeout.
//   - prompt: The full prompt text.
//   - opts: Generation parameters.
//
// # Outputs
//
//   - string: The generated text, whitespace-trimmed.
//   - error: Non-nil on transport failure, non-200 status, or empty output.
func (c *LlamaServerClient) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("llama: inference server not available")
	}

	payload := llamaRequest{
		Prompt:      prompt,
		NPredict:    opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.Stop,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llama: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionPath, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("llama: creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("llama: sending completion request",
		slog.Int("prompt_chars", len(prompt)),
		slog.Int("max_tokens", opts.MaxTokens),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llama: HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llama: reading response body (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llama: server returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp llamaResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("llama: parsing response JSON: %w", err)
	}

	text := strings.TrimSpace(apiResp.Content)
	if text == "" {
		return "", fmt.Errorf("llama: received empty completion")
	}

	return text, nil
}
