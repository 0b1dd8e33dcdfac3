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
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
)

// SubmitFeedback handles POST /v1/feedback.
//
// Feedback is the one path where the user opts their prompt text into the
// usage log, so the offline corpus work can see exactly what the parser
// missed. Unlike everywhere else, a Record failure here is a server error:
// the log entry is the entire point of the request.
func SubmitFeedback(usage extensions.UsageLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.FeedbackRequest
		if err := c.BindJSON(&req); err != nil {
			slog.Error("Failed to parse the feedback request", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpFeedback, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			observability.DefaultMetrics.RecordRequest(observability.OpFeedback, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		meta := extensions.NewMetadata().Set("comment", req.Comment)
		if req.Prompt != "" {
			meta = meta.Set("prompt", req.Prompt)
		}
		if req.Component != "" {
			meta = meta.Set("component", req.Component)
		}
		if req.Rating > 0 {
			meta = meta.Set("rating", req.Rating)
		}

		event := extensions.UsageEvent{
			EventID:   uuid.NewString(),
			EventType: "feedback.submitted",
			Timestamp: time.Now().UTC(),
			CallerID:  callerID(c),
			Outcome:   "success",
			Metadata:  meta,
		}
		if usage == nil {
			usage = &extensions.NopUsageLogger{}
		}
		if err := usage.Record(c.Request.Context(), event); err != nil {
			slog.Error("failed to record feedback", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpFeedback, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
			return
		}

		observability.DefaultMetrics.RecordRequest(observability.OpFeedback, true)
		slog.Info("feedback recorded", "requestId", req.RequestID, "hasPrompt", req.Prompt != "")
		c.JSON(http.StatusAccepted, gin.H{"status": "recorded", "requestId": req.RequestID})
	}
}
