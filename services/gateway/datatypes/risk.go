// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains request and response types for the standalone risk
// assessment endpoint (POST /v1/risk/assess).
package datatypes

import (
	"fmt"

	"github.com/google/uuid"

	designertypes "github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
)

// RiskAssessRequest carries a before/after diagram pair to score.
//
// Both specs are required and must pass the structural invariants; the
// assessment of a malformed diagram would count phantom nodes.
type RiskAssessRequest struct {
	RequestID string                   `json:"requestId" validate:"omitempty,uuid4"`
	Before    *designertypes.InfraSpec `json:"before" validate:"required"`
	After     *designertypes.InfraSpec `json:"after" validate:"required"`
}

// Validate validates the request fields and both specs' structural
// invariants.
func (r *RiskAssessRequest) Validate() error {
	if err := gatewayValidate.Struct(r); err != nil {
		return err
	}
	if err := r.Before.Validate(); err != nil {
		return fmt.Errorf("before: %w", err)
	}
	if err := r.After.Validate(); err != nil {
		return fmt.Errorf("after: %w", err)
	}
	return nil
}

// EnsureDefaults generates a RequestID when the client sent none.
func (r *RiskAssessRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}

// RiskAssessResponse is the assessment plus request correlation. The
// ChangeRisk fields (level, factors, summary) flatten into the response.
type RiskAssessResponse struct {
	RequestID string `json:"requestId"`
	risk.ChangeRisk
}
