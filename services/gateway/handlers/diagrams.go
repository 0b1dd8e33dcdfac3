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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
)

// SaveDiagram handles POST /v1/diagrams: create or upsert one diagram.
func SaveDiagram(store extensions.SpecStore, usage extensions.UsageLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.DiagramSaveRequest
		if err := c.BindJSON(&req); err != nil {
			slog.Error("Failed to parse the diagram save request", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		specJSON, err := json.Marshal(req.Spec)
		if err != nil {
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "spec is not serializable"})
			return
		}
		ctx := c.Request.Context()
		err = store.Put(ctx, extensions.StoredDiagram{
			ID:        req.ID,
			Name:      req.Name,
			Spec:      specJSON,
			NodesJSON: req.NodesJSON,
			EdgesJSON: req.EdgesJSON,
		})
		if err != nil {
			slog.Error("failed to store diagram", "diagramId", req.ID, "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store diagram"})
			return
		}

		// Read back so the response carries the stamped timestamps.
		stored, err := store.Get(ctx, req.ID)
		if err != nil {
			slog.Error("failed to read back stored diagram", "diagramId", req.ID, "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store diagram"})
			return
		}

		observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, true)
		recordUsage(c, usage, extensions.UsageEvent{
			EventType: "diagram.saved",
			Outcome:   "success",
			Metadata:  extensions.NewMetadata().Set("diagram_id", stored.ID),
		})
		slog.Info("diagram saved", "diagramId", stored.ID, "name", stored.Name)
		c.JSON(http.StatusCreated, stored)
	}
}

// GetDiagram handles GET /v1/diagrams/:diagramId.
func GetDiagram(store extensions.SpecStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("diagramId")
		stored, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, extensions.ErrDiagramNotFound) {
				observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
				c.JSON(http.StatusNotFound, gin.H{"error": "diagram not found"})
				return
			}
			slog.Error("failed to load diagram", "diagramId", id, "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diagram"})
			return
		}
		observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, true)
		c.JSON(http.StatusOK, stored)
	}
}

// ListDiagrams handles GET /v1/diagrams: all stored diagrams, most recently
// updated first.
func ListDiagrams(store extensions.SpecStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		diagrams, err := store.List(c.Request.Context())
		if err != nil {
			slog.Error("failed to list diagrams", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list diagrams"})
			return
		}
		observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, true)
		c.JSON(http.StatusOK, gin.H{"diagrams": diagrams, "count": len(diagrams)})
	}
}

// DeleteDiagram handles DELETE /v1/diagrams/:diagramId.
func DeleteDiagram(store extensions.SpecStore, usage extensions.UsageLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("diagramId")
		if err := store.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, extensions.ErrDiagramNotFound) {
				observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
				c.JSON(http.StatusNotFound, gin.H{"error": "diagram not found"})
				return
			}
			slog.Error("failed to delete diagram", "diagramId", id, "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete diagram"})
			return
		}
		observability.DefaultMetrics.RecordRequest(observability.OpDiagrams, true)
		recordUsage(c, usage, extensions.UsageEvent{
			EventType: "diagram.deleted",
			Outcome:   "success",
			Metadata:  extensions.NewMetadata().Set("diagram_id", id),
		})
		slog.Info("diagram deleted", "diagramId", id)
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "diagramId": id})
	}
}
