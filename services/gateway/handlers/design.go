// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the gin handlers for the designer gateway.
//
// A prompt the designer cannot act on is a business outcome, not a transport
// failure: those return HTTP 200 with success=false in the envelope. Only
// malformed or invalid requests get 4xx.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/designer"
	designertypes "github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/middleware"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
	"github.com/AleutianAI/ArchitectLocal/services/intent"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

var handlerTracer = otel.Tracer("architect.gateway.handlers")

// DesignCreate handles POST /v1/design/create: one prompt in, a fresh
// diagram out.
func DesignCreate(builder *designer.Builder, store *knowledge.Store, analyzer *intent.Analyzer, usage extensions.UsageLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "DesignCreate")
		defer span.End()
		start := time.Now()

		var req datatypes.DesignCreateRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the design create request", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDesignCreate, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.DefaultMetrics.RecordRequest(observability.OpDesignCreate, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		parsed, outcome := resolveIntent(ctx, analyzer, intent.Request{
			Prompt:   req.Prompt,
			Guidance: req.KnowledgePrompt,
		})
		observability.DefaultMetrics.RecordIntentOutcome(outcome)

		result := builder.Create(req.Prompt, designer.CreateOptions{
			UseTemplates:          req.TemplatesEnabled(),
			UseComponentDetection: req.DetectionEnabled(),
			Intent:                parsed,
		})

		resp := datatypes.DesignResponse{
			RequestID:    req.RequestID,
			BuildResult:  result,
			IntentSource: intentSourceLabel(outcome),
		}
		if result.Success {
			resp.KnowledgePrompt = knowledgePromptFor(store, result.Spec)
		}
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()

		observability.DefaultMetrics.RecordRequest(observability.OpDesignCreate, result.Success)
		recordUsage(c, usage, extensions.UsageEvent{
			EventType:    "design.create",
			PromptLength: utf8.RuneCountInString(req.Prompt),
			CommandType:  string(result.CommandType),
			IntentSource: intentSourceLabel(outcome),
			Outcome:      outcomeOf(result),
		})
		slog.Info("design create handled",
			"requestId", req.RequestID,
			"promptLength", utf8.RuneCountInString(req.Prompt),
			"intentSource", intentSourceLabel(outcome),
			"success", result.Success,
			"durationMs", resp.ProcessingTimeMs)
		c.JSON(http.StatusOK, resp)
	}
}

// DesignApply handles POST /v1/design/apply: one edit command against an
// existing diagram.
//
// The detected action routes the prompt. Remove and modify actions take the
// builder's modify path, everything else adds; routing must happen here
// because passing a nil intent to Add would append components a removal
// prompt only mentioned. Successful edits carry a before/after risk
// assessment in the response.
func DesignApply(builder *designer.Builder, store *knowledge.Store, assessor *risk.Assessor, analyzer *intent.Analyzer, usage extensions.UsageLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "DesignApply")
		defer span.End()
		start := time.Now()

		var req datatypes.DesignApplyRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the design apply request", "error", err)
			observability.DefaultMetrics.RecordRequest(observability.OpDesignApply, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			observability.DefaultMetrics.RecordRequest(observability.OpDesignApply, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		parsed, outcome := resolveIntent(ctx, analyzer, intent.Request{
			Prompt:      req.Prompt,
			SpecSummary: knowledge.BuildContext(req.CurrentSpec).Summary(),
			Guidance:    req.KnowledgePrompt,
		})
		observability.DefaultMetrics.RecordIntentOutcome(outcome)

		applied := parsed
		if applied == nil {
			applied = designer.DetectIntent(req.Prompt, req.CurrentSpec)
		}

		var result designertypes.BuildResult
		switch {
		case applied == nil:
			result = designertypes.Failure("no recognizable component or action in the prompt")
		case applied.Action == designertypes.ActionRemove || applied.Action == designertypes.ActionModify:
			result = builder.Modify(req.Prompt, req.CurrentSpec, applied)
		default:
			result = builder.Add(req.Prompt, req.CurrentSpec, applied)
		}

		resp := datatypes.DesignResponse{
			RequestID:    req.RequestID,
			BuildResult:  result,
			IntentSource: intentSourceLabel(outcome),
		}
		if result.Success {
			cr := assessor.Assess(req.CurrentSpec, result.Spec)
			resp.Risk = &cr
			observability.DefaultMetrics.RecordRiskLevel(string(cr.Level))
			resp.KnowledgePrompt = knowledgePromptFor(store, result.Spec)
		}
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()

		eventType := "design.apply"
		if result.CommandType != "" {
			eventType = "design." + string(result.CommandType)
		}
		var riskLevel string
		if resp.Risk != nil {
			riskLevel = string(resp.Risk.Level)
		}
		observability.DefaultMetrics.RecordRequest(observability.OpDesignApply, result.Success)
		recordUsage(c, usage, extensions.UsageEvent{
			EventType:    eventType,
			PromptLength: utf8.RuneCountInString(req.Prompt),
			CommandType:  string(result.CommandType),
			IntentSource: intentSourceLabel(outcome),
			Outcome:      outcomeOf(result),
			RiskLevel:    riskLevel,
		})
		slog.Info("design apply handled",
			"requestId", req.RequestID,
			"promptLength", utf8.RuneCountInString(req.Prompt),
			"commandType", result.CommandType,
			"intentSource", intentSourceLabel(outcome),
			"success", result.Success,
			"durationMs", resp.ProcessingTimeMs)
		c.JSON(http.StatusOK, resp)
	}
}

// =============================================================================
// Shared Helpers
// =============================================================================

// resolveIntent runs the single model call for this request, when a backend
// is configured, and labels the outcome for metrics.
func resolveIntent(ctx context.Context, analyzer *intent.Analyzer, req intent.Request) (*designertypes.IntentAnalysis, observability.IntentOutcome) {
	if !analyzer.Enabled() {
		return nil, observability.IntentFallback
	}
	m := observability.DefaultMetrics
	m.ModelCallStarted()
	start := time.Now()
	res := analyzer.Analyze(ctx, req)
	m.ModelCallEnded()
	m.ObserveModelCall(time.Since(start).Seconds(), res.OK())
	if !res.OK() {
		return nil, observability.IntentError
	}
	return res.Intent, observability.IntentModel
}

// intentSourceLabel collapses the metric outcome to the two client-facing
// sources: the deterministic rules serve whenever the model path did not.
func intentSourceLabel(outcome observability.IntentOutcome) string {
	if outcome == observability.IntentModel {
		return string(observability.IntentModel)
	}
	return string(observability.IntentFallback)
}

// knowledgePromptFor renders the guidance block the client echoes into its
// next request. "" when the knowledge layer has nothing to say about the
// diagram.
func knowledgePromptFor(store *knowledge.Store, spec *designertypes.InfraSpec) string {
	if spec == nil {
		return ""
	}
	return knowledge.PromptSection(store.Enrich(knowledge.BuildContext(spec), knowledge.EnrichOptions{}))
}

// callerID resolves the identity the auth middleware attached, falling back
// to "anonymous" on routes mounted without it.
func callerID(c *gin.Context) string {
	if info := middleware.GetCallerInfo(c); info != nil {
		return info.CallerID
	}
	return "anonymous"
}

// recordUsage stamps and appends one usage event. Failures are logged and
// swallowed; usage logging never fails a request.
func recordUsage(c *gin.Context, usage extensions.UsageLogger, event extensions.UsageEvent) {
	if usage == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	event.CallerID = callerID(c)
	if err := usage.Record(c.Request.Context(), event); err != nil {
		slog.Warn("usage record failed", "eventType", event.EventType, "error", err)
	}
}

// outcomeOf maps a build result to the usage log outcome vocabulary.
func outcomeOf(result designertypes.BuildResult) string {
	if result.Success {
		return "success"
	}
	return "unrecognized"
}
