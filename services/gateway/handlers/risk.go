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

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
)

// RiskAssess handles POST /v1/risk/assess: a standalone before/after
// assessment with no design step. CI gates and editors use it to score a
// pending change before applying it.
func RiskAssess(assessor *risk.Assessor, usage extensions.UsageLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := handlerTracer.Start(c.Request.Context(), "RiskAssess")
		defer span.End()

		var req datatypes.RiskAssessRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the risk assess request", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpRiskAssess, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.DefaultMetrics.RecordRequest(observability.OpRiskAssess, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cr := assessor.Assess(req.Before, req.After)

		observability.DefaultMetrics.RecordRequest(observability.OpRiskAssess, true)
		observability.DefaultMetrics.RecordRiskLevel(string(cr.Level))
		recordUsage(c, usage, extensions.UsageEvent{
			EventType:    "risk.assess",
			IntentSource: "none",
			Outcome:      "success",
			RiskLevel:    string(cr.Level),
		})
		slog.Info("risk assessed",
			"requestId", req.RequestID,
			"level", cr.Level,
			"factors", len(cr.Factors))
		c.JSON(http.StatusOK, datatypes.RiskAssessResponse{
			RequestID:  req.RequestID,
			ChangeRisk: cr,
		})
	}
}
