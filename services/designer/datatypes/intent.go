// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// IntentAction is the high-level operation extracted from a prompt.
type IntentAction string

const (
	ActionCreate IntentAction = "create"
	ActionAdd    IntentAction = "add"
	ActionRemove IntentAction = "remove"
	ActionModify IntentAction = "modify"
)

// Valid reports whether a is one of the recognized actions.
func (a IntentAction) Valid() bool {
	switch a {
	case ActionCreate, ActionAdd, ActionRemove, ActionModify:
		return true
	}
	return false
}

// PositionRelation describes where a new component sits relative to an
// anchor ("put a WAF in front of the web server").
type PositionRelation string

const (
	PositionBehind  PositionRelation = "behind"
	PositionInFront PositionRelation = "in-front-of"
	PositionBetween PositionRelation = "between"
	PositionReplace PositionRelation = "replace"
)

// PositionHint is an optional placement extracted alongside an intent.
// Anchor (and SecondAnchor for "between") name component types already
// expected in the diagram.
type PositionHint struct {
	Relation     PositionRelation `json:"relation"`
	Anchor       ComponentType    `json:"anchor"`
	SecondAnchor ComponentType    `json:"secondAnchor,omitempty"`
}

// IntentAnalysis is the structured result of analyzing one prompt. It is
// transient per request and never persisted.
//
// Components preserves the order the prompt mentioned them in; Confidence is
// the model's self-reported 0..1 score (1.0 for rule-based detection).
type IntentAnalysis struct {
	Action     IntentAction    `json:"action"`
	Components []ComponentType `json:"components"`
	Position   *PositionHint   `json:"position,omitempty"`
	Label      string          `json:"label,omitempty"`
	Confidence float64         `json:"confidence"`
}

// Normalize drops components outside the vocabulary and reports whether the
// intent is still usable afterwards (a valid action and at least one
// component, or a create action which may rely on template matching).
func (ia *IntentAnalysis) Normalize() bool {
	if ia == nil || !ia.Action.Valid() {
		return false
	}
	kept := ia.Components[:0]
	for _, c := range ia.Components {
		if t, ok := ParseComponentType(string(c)); ok {
			kept = append(kept, t)
		}
	}
	ia.Components = kept
	if ia.Position != nil {
		if t, ok := ParseComponentType(string(ia.Position.Anchor)); ok {
			ia.Position.Anchor = t
		} else {
			ia.Position = nil
		}
	}
	if ia.Position != nil && ia.Position.SecondAnchor != "" {
		if t, ok := ParseComponentType(string(ia.Position.SecondAnchor)); ok {
			ia.Position.SecondAnchor = t
		} else {
			ia.Position.SecondAnchor = ""
		}
	}
	if ia.Confidence < 0 {
		ia.Confidence = 0
	}
	if ia.Confidence > 1 {
		ia.Confidence = 1
	}
	return len(ia.Components) > 0 || ia.Action == ActionCreate
}
