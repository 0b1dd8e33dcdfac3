// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package intent turns one free-text prompt into a structured IntentAnalysis
// using a single model call plus tolerant JSON extraction.
//
// Model trouble is never an error here: whatever goes wrong (no backend, the
// call fails, the response has no usable JSON, the context is cancelled) the
// Analyzer returns a Result with a nil Intent and the reason in Err, and the
// caller falls back to deterministic parsing. The one model call per prompt
// is the only I/O in the whole design path.
package intent

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/llm"
)

var analyzerTracer = otel.Tracer("architect.intent")

// Request carries one prompt plus the rendered context the model sees.
type Request struct {
	// Prompt is the user's free-text command.
	Prompt string

	// SpecSummary describes the current diagram ("" or "(empty diagram)"
	// when starting fresh). Rendered by the knowledge context builder.
	SpecSummary string

	// Guidance is the knowledge prompt section from the previous turn's
	// enrichment; "" when there was nothing to say. It is appended after a
	// blank line to the base system instruction, never prepended.
	Guidance string
}

// Result is the tagged outcome of one analysis. Intent == nil means the
// caller must use the deterministic fallback; Err then says why.
type Result struct {
	Intent *datatypes.IntentAnalysis
	Raw    string
	Err    string
}

// OK reports whether the model produced a usable intent.
func (r Result) OK() bool {
	return r.Intent != nil
}

// Analyzer wraps one LLM backend. A nil client is valid and means every
// Analyze call reports fallback immediately.
type Analyzer struct {
	client llm.Client
	params llm.GenerationParams
}

// NewAnalyzer builds an Analyzer over the given backend (nil for none).
func NewAnalyzer(client llm.Client) *Analyzer {
	temp := float32(0.1)
	maxTokens := 512
	return &Analyzer{
		client: client,
		params: llm.GenerationParams{
			Temperature: &temp,
			MaxTokens:   &maxTokens,
		},
	}
}

// Enabled reports whether a model backend is configured. Callers use this to
// label which path produced an intent without attempting a doomed call.
func (a *Analyzer) Enabled() bool {
	return a != nil && a.client != nil
}

// Analyze sends the one model call for this prompt and extracts the first
// valid intent object from the response.
//
// Cancellation of ctx surfaces as a fallback Result like any other model
// failure; it never aborts the caller's request.
func (a *Analyzer) Analyze(ctx context.Context, req Request) Result {
	if a == nil || a.client == nil {
		return Result{Err: "no model backend configured"}
	}

	ctx, span := analyzerTracer.Start(ctx, "Analyzer.Analyze")
	defer span.End()
	span.SetAttributes(attribute.Int("prompt.length", len(req.Prompt)))

	params := a.params
	params.System = systemInstruction
	if req.Guidance != "" {
		params.System = systemInstruction + "\n\n" + req.Guidance
	}

	start := time.Now()
	raw, err := a.client.Generate(ctx, buildUserPrompt(req), params)
	if err != nil {
		span.RecordError(err)
		slog.Warn("intent model call failed, falling back",
			"error", err, "duration_ms", time.Since(start).Milliseconds())
		return Result{Err: err.Error()}
	}

	parsed, err := ExtractIntent(raw)
	if err != nil {
		slog.Warn("intent extraction failed, falling back",
			"error", err, "response_length", len(raw))
		return Result{Raw: raw, Err: err.Error()}
	}

	span.SetAttributes(
		attribute.String("intent.action", string(parsed.Action)),
		attribute.Int("intent.components", len(parsed.Components)),
	)
	slog.Debug("intent extracted",
		"action", parsed.Action,
		"components", len(parsed.Components),
		"confidence", parsed.Confidence,
		"duration_ms", time.Since(start).Milliseconds())
	return Result{Intent: parsed, Raw: raw}
}
