// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command assistant starts the Aleutian Tasker API server.
//
// Aleutian Tasker answers natural language questions about tracker issues:
//   - Conversational answers with project insights
//   - Natural language to JQL conversion (model-assisted with a
//     deterministic pattern fallback)
//   - Direct JQL search and task creation against Jira
//
// Usage:
//
//	go run ./cmd/assistant
//	go run ./cmd/assistant -port 9090
//
// With a tracker:
//
//	JIRA_SERVER=https://example.atlassian.net JIRA_USERNAME=me \
//	JIRA_API_TOKEN=token JIRA_PROJECT_KEY=TASK go run ./cmd/assistant
//
// With a local model (llama.cpp llama-server):
//
//	MODEL_BASE_URL=http://localhost:8081 go run ./cmd/assistant
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/assistant/health
//
//	# Ask a question
//	curl -X POST http://localhost:8080/v1/assistant/query \
//	  -H "Content-Type: application/json" \
//	  -d '{"query": "show me unassigned bugs"}'
//
//	# Convert to JQL
//	curl -X POST http://localhost:8080/v1/assistant/convert \
//	  -H "Content-Type: application/json" \
//	  -d '{"query": "high priority tasks from last week"}'
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/AleutianTasker/services/assistant"
	"github.com/AleutianAI/AleutianTasker/services/assistant/config"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	debug := flag.Bool("debug", false, "enable request logging")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.LoadSettings()
	svc, err := assistant.NewService(cfg)
	if err != nil {
		slog.Error("Failed to initialize service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers := assistant.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("aleutian-tasker"))
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	assistant.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Graceful shutdown: close the history store before exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down Aleutian Tasker server")
		if err := svc.Close(); err != nil {
			slog.Warn("Failed to close service", slog.String("error", err.Error()))
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Starting Aleutian Tasker server",
		slog.String("address", addr),
		slog.Bool("tracker_configured", cfg.JiraServer != ""),
		slog.Bool("model_configured", cfg.ModelBaseURL != ""),
	)
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
