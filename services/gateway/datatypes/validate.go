// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the designer
// gateway.
//
// This file contains the shared validator instance and the custom
// validators the request types rely on. Request types bind from JSON, then
// run EnsureDefaults() and Validate() before any handler logic touches
// them.
package datatypes

import (
	"github.com/go-playground/validator/v10"

	designertypes "github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// =============================================================================
// Request Limits
// =============================================================================

// MaxPromptBytes is the maximum size of a free-text prompt. Design prompts
// are short commands; anything larger is rejected before it reaches the
// model or the detector.
const MaxPromptBytes = 8 * 1024 // 8KB

// =============================================================================
// Shared Validator Instance
// =============================================================================

// gatewayValidate is the validator instance for gateway datatypes.
// Initialized in init() with custom validators.
var gatewayValidate *validator.Validate

func init() {
	gatewayValidate = validator.New()

	_ = gatewayValidate.RegisterValidation("maxbytes", validateMaxBytes)
	_ = gatewayValidate.RegisterValidation("componenttype", validateComponentType)
}

// validateMaxBytes checks byte length (not rune count) against
// MaxPromptBytes, so a multi-byte Korean prompt is bounded by memory use
// rather than character count.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPromptBytes
}

// validateComponentType accepts only the closed component vocabulary.
func validateComponentType(fl validator.FieldLevel) bool {
	_, ok := designertypes.ParseComponentType(fl.Field().String())
	return ok
}
