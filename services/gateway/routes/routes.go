// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/designer"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/handlers"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/middleware"
	"github.com/AleutianAI/ArchitectLocal/services/intent"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

func SetupRoutes(router *gin.Engine, store *knowledge.Store, builder *designer.Builder,
	assessor *risk.Assessor, analyzer *intent.Analyzer, opts extensions.ServiceOptions) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(opts.AuthProvider))
	v1.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
	{
		design := v1.Group("/design")
		{
			design.POST("/create", handlers.DesignCreate(builder, store, analyzer, opts.UsageLogger))
			design.POST("/apply", handlers.DesignApply(builder, store, assessor, analyzer, opts.UsageLogger))
		}
		v1.POST("/risk/assess", handlers.RiskAssess(assessor, opts.UsageLogger))
		// Knowledge corpus inspection routes
		know := v1.Group("/knowledge")
		{
			know.GET("/components", handlers.ListComponents(store))
			know.GET("/relationships", handlers.ListRelationships(store))
			know.GET("/patterns", handlers.ListPatterns(store))
		}
		// Diagram persistence routes
		diagrams := v1.Group("/diagrams")
		{
			diagrams.POST("", handlers.SaveDiagram(opts.Store, opts.UsageLogger))
			diagrams.GET("", handlers.ListDiagrams(opts.Store))
			diagrams.GET("/:diagramId", handlers.GetDiagram(opts.Store))
			diagrams.DELETE("/:diagramId", handlers.DeleteDiagram(opts.Store, opts.UsageLogger))
		}
		v1.POST("/feedback", handlers.SubmitFeedback(opts.UsageLogger))
	}
}
