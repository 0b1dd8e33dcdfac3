// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains request and response types for the design endpoints
// (POST /v1/design/create and POST /v1/design/apply).
package datatypes

import (
	"fmt"

	"github.com/google/uuid"

	designertypes "github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
)

// =============================================================================
// Design Request Types
// =============================================================================

// DesignCreateRequest asks for a fresh diagram built from one prompt.
//
// # Fields
//
//   - RequestID: Optional client-assigned UUID v4 for tracing; generated
//     server-side when absent.
//   - Prompt: Required free-text description, at most MaxPromptBytes.
//   - UseTemplates: Optional. Match the prompt against reference patterns
//     and instantiate the winner as the base diagram. Defaults to true.
//   - UseDetection: Optional. Run rule-based component detection over the
//     prompt when no model intent is available. Defaults to true.
//   - KnowledgePrompt: Optional guidance block echoed back from the
//     previous response's knowledgePrompt field. Appended to the intent
//     model's system instruction, so each turn sees what the knowledge
//     graph said about the last one.
type DesignCreateRequest struct {
	RequestID       string `json:"requestId" validate:"omitempty,uuid4"`
	Prompt          string `json:"prompt" validate:"required,maxbytes"`
	UseTemplates    *bool  `json:"useTemplates,omitempty"`
	UseDetection    *bool  `json:"useDetection,omitempty"`
	KnowledgePrompt string `json:"knowledgePrompt,omitempty"`
}

// Validate validates the request fields.
func (r *DesignCreateRequest) Validate() error {
	return gatewayValidate.Struct(r)
}

// EnsureDefaults generates a RequestID when the client sent none.
func (r *DesignCreateRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

// TemplatesEnabled resolves the UseTemplates flag, defaulting to true.
func (r *DesignCreateRequest) TemplatesEnabled() bool {
	return r.UseTemplates == nil || *r.UseTemplates
}

// DetectionEnabled resolves the UseDetection flag, defaulting to true.
func (r *DesignCreateRequest) DetectionEnabled() bool {
	return r.UseDetection == nil || *r.UseDetection
}

// DesignApplyRequest asks for an edit to an existing diagram. The prompt's
// detected action routes the request to the add or modify path.
//
// # Fields
//
//   - RequestID: Optional client-assigned UUID v4; generated when absent.
//   - Prompt: Required free-text command, at most MaxPromptBytes.
//   - CurrentSpec: Required diagram the edit applies to. Must pass the
//     structural spec invariants; the gateway rejects a diagram with
//     dangling connections rather than building on it.
//   - KnowledgePrompt: Optional guidance block from the previous turn, as
//     in DesignCreateRequest.
type DesignApplyRequest struct {
	RequestID       string                   `json:"requestId" validate:"omitempty,uuid4"`
	Prompt          string                   `json:"prompt" validate:"required,maxbytes"`
	CurrentSpec     *designertypes.InfraSpec `json:"currentSpec" validate:"required"`
	KnowledgePrompt string                   `json:"knowledgePrompt,omitempty"`
}

// Validate validates the request fields and the structural invariants of
// the current spec.
func (r *DesignApplyRequest) Validate() error {
	if err := gatewayValidate.Struct(r); err != nil {
		return err
	}
	if err := r.CurrentSpec.Validate(); err != nil {
		return fmt.Errorf("currentSpec: %w", err)
	}
	return nil
}

// EnsureDefaults generates a RequestID when the client sent none.
func (r *DesignApplyRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

// =============================================================================
// Design Response Types
// =============================================================================

// DesignResponse is the envelope for both design endpoints: the builder
// result plus the request correlation and knowledge fields.
//
// # Fields
//
//   - RequestID: Echo of the request ID for correlation.
//   - BuildResult: The builder outcome, flattened into the response
//     (success, spec, commandType, warnings, suggestions, explanation,
//     error).
//   - IntentSource: Which path produced the intent: "model" when the
//     language model parse succeeded, "fallback" when keyword detection
//     served.
//   - KnowledgePrompt: Guidance rendered from the result diagram, for the
//     client to echo into its next request. Omitted when the knowledge
//     graph had nothing to say, and on failure.
//   - Risk: Before/after change assessment. Only set by the apply
//     endpoint, and only on success.
//   - ProcessingTimeMs: Wall time spent handling the request.
type DesignResponse struct {
	RequestID string `json:"requestId"`
	designertypes.BuildResult
	IntentSource     string           `json:"intentSource,omitempty"`
	KnowledgePrompt  string           `json:"knowledgePrompt,omitempty"`
	Risk             *risk.ChangeRisk `json:"risk,omitempty"`
	ProcessingTimeMs int64            `json:"processingTimeMs"`
}
