// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	designertypes "github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

// ListComponents handles GET /v1/knowledge/components: the component
// vocabulary with tiers and display names, for editor palettes.
func ListComponents(store *knowledge.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.DefaultMetrics.RecordRequest(observability.OpKnowledge, true)
		c.JSON(http.StatusOK, gin.H{"components": store.Components()})
	}
}

// ListRelationships handles GET /v1/knowledge/relationships?type=<component>.
func ListRelationships(store *knowledge.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("type")
		if raw == "" {
			observability.DefaultMetrics.RecordRequest(observability.OpKnowledge, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'type' is required"})
			return
		}
		t, ok := designertypes.ParseComponentType(raw)
		if !ok {
			observability.DefaultMetrics.RecordRequest(observability.OpKnowledge, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown component type: " + raw})
			return
		}
		observability.DefaultMetrics.RecordRequest(observability.OpKnowledge, true)
		c.JSON(http.StatusOK, gin.H{
			"type":          t,
			"relationships": store.RelationshipsFor(t),
		})
	}
}

// ListPatterns handles GET /v1/knowledge/patterns: the reference patterns in
// matcher priority order, catch-all last.
func ListPatterns(store *knowledge.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.DefaultMetrics.RecordRequest(observability.OpKnowledge, true)
		c.JSON(http.StatusOK, gin.H{"patterns": store.Patterns()})
	}
}
