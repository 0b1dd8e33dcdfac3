// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the request type for the diagram persistence
// endpoints (POST /v1/diagrams). Reads and deletes address diagrams by
// path parameter and need no body.
package datatypes

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	designertypes "github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// DiagramSaveRequest stores one diagram, creating it or replacing the
// existing one with the same ID.
//
// # Fields
//
//   - ID: Optional UUID v4. Absent means create with a fresh ID; present
//     means upsert.
//   - Name: Optional display title.
//   - Spec: Required diagram document. Must pass the structural spec
//     invariants before it is persisted.
//   - NodesJSON / EdgesJSON: Optional editor state (positions, styling).
//     Stored verbatim and returned untouched; the gateway never interprets
//     them.
type DiagramSaveRequest struct {
	ID        string                   `json:"id" validate:"omitempty,uuid4"`
	Name      string                   `json:"name" validate:"max=200"`
	Spec      *designertypes.InfraSpec `json:"spec" validate:"required"`
	NodesJSON json.RawMessage          `json:"nodesJson,omitempty"`
	EdgesJSON json.RawMessage          `json:"edgesJson,omitempty"`
}

// Validate validates the request fields and the spec's structural
// invariants.
func (r *DiagramSaveRequest) Validate() error {
	if err := gatewayValidate.Struct(r); err != nil {
		return err
	}
	if err := r.Spec.Validate(); err != nil {
		return fmt.Errorf("spec: %w", err)
	}
	return nil
}

// EnsureDefaults generates an ID when the client sent none.
func (r *DiagramSaveRequest) EnsureDefaults() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
}
