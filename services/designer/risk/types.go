// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package risk

import (
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// Exit codes for risk assessment commands.
const (
	ExitSuccess   = 0 // Risk at or below threshold
	ExitRiskFound = 1 // Risk above threshold
	ExitError     = 2 // Error (unreadable spec, assessment failure)
)

// DefaultThreshold is the level above which the CLI signals risk.
const DefaultThreshold = datatypes.SeverityHigh

// Factor categories. Each factor names the diff observation it came from.
const (
	CategorySecurityRemoved  = "security-removed"
	CategoryComponentRemoved = "component-removed"
	CategorySecurityAdded    = "security-added"
	CategoryAntiPattern      = "anti-pattern"
	CategoryNodeRetyped      = "node-retyped"
)

// ParseLevel parses a string to a risk level, defaulting to high for
// anything unrecognized so a typo in a threshold flag fails closed.
func ParseLevel(s string) datatypes.Severity {
	switch strings.ToLower(s) {
	case "low":
		return datatypes.SeverityLow
	case "medium":
		return datatypes.SeverityMedium
	case "high":
		return datatypes.SeverityHigh
	case "critical":
		return datatypes.SeverityCritical
	default:
		return datatypes.SeverityHigh
	}
}

// Factor is one contributing observation in a risk assessment.
type Factor struct {
	Severity  datatypes.Severity `json:"severity"`
	Category  string             `json:"category"`
	Message   string             `json:"message"`
	Component string             `json:"component,omitempty"`
}

// Summary carries the literal diff counts. It is always populated, factors
// or no factors, so callers can report "nothing changed" honestly.
type Summary struct {
	AddedNodes         int `json:"addedNodes"`
	RemovedNodes       int `json:"removedNodes"`
	ModifiedNodes      int `json:"modifiedNodes"`
	AddedConnections   int `json:"addedConnections"`
	RemovedConnections int `json:"removedConnections"`
}

// ChangeRisk is the assessment of one before/after spec pair.
//
// Level is the maximum factor severity; with no factors it is low. Factors
// are sorted most severe first, then by category and message, so identical
// input pairs always produce identical output.
type ChangeRisk struct {
	Level   datatypes.Severity `json:"level"`
	Factors []Factor           `json:"factors"`
	Summary Summary            `json:"summary"`
}
