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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all assistant routes with the router.
//
// Description:
//
//	Registers all /v1/assistant/* endpoints with the given Gin router
//	group. The router group should already have any required middleware
//	applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST   /v1/assistant/query - Answer a natural language request
//	POST   /v1/assistant/analyze - Analyze a request without fetching issues
//	POST   /v1/assistant/convert - Convert a request to a JQL expression
//	POST   /v1/assistant/search - Execute a raw JQL expression
//	POST   /v1/assistant/tasks - Create a task
//	GET    /v1/assistant/suggestions - Example requests
//	GET    /v1/assistant/history - Recent exchanges
//	DELETE /v1/assistant/history - Clear exchanges
//	GET    /v1/assistant/health - Health check
//
// Example:
//
//	service, _ := assistant.NewService(config.LoadSettings())
//	handlers := assistant.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	assistant.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	assistant := rg.Group("/assistant")
	{
		// Query pipeline
		assistant.POST("/query", handlers.HandleQuery)
		assistant.POST("/analyze", handlers.HandleAnalyze)
		assistant.POST("/convert", handlers.HandleConvert)

		// Direct tracker access
		assistant.POST("/search", handlers.HandleSearch)
		assistant.POST("/tasks", handlers.HandleCreateTask)

		// Client support
		assistant.GET("/suggestions", handlers.HandleSuggestions)
		assistant.GET("/history", handlers.HandleHistory)
		assistant.DELETE("/history", handlers.HandleClearHistory)

		// Health checks
		assistant.GET("/health", handlers.HandleHealth)
	}
}
