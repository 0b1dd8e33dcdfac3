// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package knowledge holds the curated architecture knowledge graph: which
// components require, recommend, conflict with, enhance, or protect which
// others, known anti-patterns, failure scenarios, and the reference patterns
// the fallback matcher instantiates.
//
// The corpus is curated offline in YAML, embedded into the binary, and loaded
// once at startup. After Load the store is read-only and safe for unbounded
// concurrent reads.
//
// This file contains the corpus entity types and their load-time validation.
package knowledge

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// RelationshipType classifies how one component type relates to another.
type RelationshipType string

const (
	RelationshipRequires   RelationshipType = "requires"
	RelationshipRecommends RelationshipType = "recommends"
	RelationshipConflicts  RelationshipType = "conflicts"
	RelationshipEnhances   RelationshipType = "enhances"
	RelationshipProtects   RelationshipType = "protects"
)

// Valid reports whether rt is a recognized relationship type.
func (rt RelationshipType) Valid() bool {
	switch rt {
	case RelationshipRequires, RelationshipRecommends, RelationshipConflicts,
		RelationshipEnhances, RelationshipProtects:
		return true
	}
	return false
}

// Strength grades a relationship. Warning severity derives from it:
// mandatory conflicts are critical, strong high, weak medium.
type Strength string

const (
	StrengthMandatory Strength = "mandatory"
	StrengthStrong    Strength = "strong"
	StrengthWeak      Strength = "weak"
)

// Valid reports whether s is a recognized strength.
func (s Strength) Valid() bool {
	switch s {
	case StrengthMandatory, StrengthStrong, StrengthWeak:
		return true
	}
	return false
}

// WarningSeverity maps relationship strength onto warning severity.
func (s Strength) WarningSeverity() datatypes.Severity {
	switch s {
	case StrengthMandatory:
		return datatypes.SeverityCritical
	case StrengthStrong:
		return datatypes.SeverityHigh
	default:
		return datatypes.SeverityMedium
	}
}

// Direction says whether a relationship reads one way or both ways.
type Direction string

const (
	DirectionOneWay        Direction = "one-way"
	DirectionBidirectional Direction = "bidirectional"
)

// Valid reports whether d is a recognized direction. An empty direction is
// valid and defaults to one-way at load time.
func (d Direction) Valid() bool {
	return d == DirectionOneWay || d == DirectionBidirectional || d == ""
}

// Likelihood grades how likely a failure scenario is.
type Likelihood string

const (
	LikelihoodLow    Likelihood = "low"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodHigh   Likelihood = "high"
)

// Valid reports whether l is a recognized likelihood.
func (l Likelihood) Valid() bool {
	return l == LikelihoodLow || l == LikelihoodMedium || l == LikelihoodHigh
}

// Text is a bilingual message. The corpus carries Korean and English for
// every user-facing string; Render joins them Korean-first.
type Text struct {
	EN string `yaml:"en" json:"en"`
	KO string `yaml:"ko" json:"ko"`
}

// Render returns "KO (EN)" when both languages are present, otherwise
// whichever one is.
func (t Text) Render() string {
	switch {
	case t.KO != "" && t.EN != "":
		return fmt.Sprintf("%s (%s)", t.KO, t.EN)
	case t.KO != "":
		return t.KO
	default:
		return t.EN
	}
}

// Empty reports whether both languages are blank.
func (t Text) Empty() bool {
	return strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.KO) == ""
}

// Relationship is one curated edge in the knowledge graph, read as
// "Source <Type> Target" ("web-server requires firewall").
type Relationship struct {
	Source    datatypes.ComponentType `yaml:"source" json:"source"`
	Target    datatypes.ComponentType `yaml:"target" json:"target"`
	Type      RelationshipType        `yaml:"type" json:"type"`
	Strength  Strength                `yaml:"strength" json:"strength"`
	Direction Direction               `yaml:"direction,omitempty" json:"direction"`
	Reason    Text                    `yaml:"reason" json:"reason"`
}

func (r Relationship) validate(i int) error {
	if !r.Source.Valid() {
		return fmt.Errorf("relationship %d: unknown source type %q", i, r.Source)
	}
	if !r.Target.Valid() {
		return fmt.Errorf("relationship %d: unknown target type %q", i, r.Target)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("relationship %d (%s->%s): unknown type %q", i, r.Source, r.Target, r.Type)
	}
	if !r.Strength.Valid() {
		return fmt.Errorf("relationship %d (%s->%s): unknown strength %q", i, r.Source, r.Target, r.Strength)
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("relationship %d (%s->%s): unknown direction %q", i, r.Source, r.Target, r.Direction)
	}
	if r.Reason.Empty() {
		return fmt.Errorf("relationship %d (%s->%s): empty reason", i, r.Source, r.Target)
	}
	return nil
}

// AntiPattern is a structural signature over a diagram's adjacency view that
// the corpus flags as a known bad arrangement.
//
// An edge matches when its source satisfies SourceTypes (or SourceTier when
// no types are listed) and its target satisfies TargetTypes/TargetTier. A
// matched edge is exempt when the target node also receives an edge from one
// of ExemptTypes; the guard in front is taken to mediate the access.
type AntiPattern struct {
	ID          string                    `yaml:"id" json:"id"`
	Severity    datatypes.Severity        `yaml:"severity" json:"severity"`
	SourceTypes []datatypes.ComponentType `yaml:"sourceTypes,omitempty" json:"sourceTypes,omitempty"`
	SourceTier  datatypes.Tier            `yaml:"sourceTier,omitempty" json:"sourceTier,omitempty"`
	TargetTypes []datatypes.ComponentType `yaml:"targetTypes,omitempty" json:"targetTypes,omitempty"`
	TargetTier  datatypes.Tier            `yaml:"targetTier,omitempty" json:"targetTier,omitempty"`
	ExemptTypes []datatypes.ComponentType `yaml:"exemptTypes,omitempty" json:"exemptTypes,omitempty"`
	Message     Text                      `yaml:"message" json:"message"`
	Description Text                      `yaml:"description" json:"description"`
}

func (ap AntiPattern) validate() error {
	if ap.ID == "" {
		return fmt.Errorf("anti-pattern with empty id")
	}
	if ap.Severity.Rank() == 0 {
		return fmt.Errorf("anti-pattern %q: unknown severity %q", ap.ID, ap.Severity)
	}
	if len(ap.SourceTypes) == 0 && ap.SourceTier == "" {
		return fmt.Errorf("anti-pattern %q: no source signature", ap.ID)
	}
	if len(ap.TargetTypes) == 0 && ap.TargetTier == "" {
		return fmt.Errorf("anti-pattern %q: no target signature", ap.ID)
	}
	for _, lists := range [][]datatypes.ComponentType{ap.SourceTypes, ap.TargetTypes, ap.ExemptTypes} {
		for _, t := range lists {
			if !t.Valid() {
				return fmt.Errorf("anti-pattern %q: unknown component type %q", ap.ID, t)
			}
		}
	}
	if ap.Message.Empty() {
		return fmt.Errorf("anti-pattern %q: empty message", ap.ID)
	}
	return nil
}

// FailureScenario describes what breaks when a component of the given type
// fails, how likely that is, and the standard mitigation.
type FailureScenario struct {
	Component   datatypes.ComponentType `yaml:"component" json:"component"`
	Impact      Text                    `yaml:"impact" json:"impact"`
	ImpactLevel datatypes.Severity      `yaml:"impactLevel" json:"impactLevel"`
	Likelihood  Likelihood              `yaml:"likelihood" json:"likelihood"`
	Mitigation  Text                    `yaml:"mitigation" json:"mitigation"`
}

func (f FailureScenario) validate(i int) error {
	if !f.Component.Valid() {
		return fmt.Errorf("failure scenario %d: unknown component type %q", i, f.Component)
	}
	if f.ImpactLevel.Rank() == 0 {
		return fmt.Errorf("failure scenario %d (%s): unknown impact level %q", i, f.Component, f.ImpactLevel)
	}
	if !f.Likelihood.Valid() {
		return fmt.Errorf("failure scenario %d (%s): unknown likelihood %q", i, f.Component, f.Likelihood)
	}
	if f.Impact.Empty() {
		return fmt.Errorf("failure scenario %d (%s): empty impact", i, f.Component)
	}
	return nil
}

// Pattern is a reference architecture the fallback matcher can instantiate.
//
// Keywords are lower-case Korean and English substrings; the matcher checks
// patterns in ascending Priority order and an empty keyword list only matches
// as the final catch-all. EvolvesTo/EvolvesFrom link growth paths between
// patterns for explanation text.
type Pattern struct {
	ID          string                    `yaml:"id" json:"id"`
	Name        Text                      `yaml:"name" json:"name"`
	Description Text                      `yaml:"description" json:"description"`
	Keywords    []string                  `yaml:"keywords" json:"keywords"`
	Required    []datatypes.ComponentType `yaml:"required" json:"required"`
	Optional    []datatypes.ComponentType `yaml:"optional,omitempty" json:"optional,omitempty"`
	EvolvesTo   []string                  `yaml:"evolvesTo,omitempty" json:"evolvesTo,omitempty"`
	EvolvesFrom string                    `yaml:"evolvesFrom,omitempty" json:"evolvesFrom,omitempty"`
	Priority    int                       `yaml:"priority" json:"priority"`
}

func (p Pattern) validate() error {
	if p.ID == "" {
		return fmt.Errorf("pattern with empty id")
	}
	if p.Name.Empty() {
		return fmt.Errorf("pattern %q: empty name", p.ID)
	}
	if len(p.Required) == 0 {
		return fmt.Errorf("pattern %q: no required components", p.ID)
	}
	for _, t := range append(append([]datatypes.ComponentType{}, p.Required...), p.Optional...) {
		if !t.Valid() {
			return fmt.Errorf("pattern %q: unknown component type %q", p.ID, t)
		}
	}
	for _, kw := range p.Keywords {
		if kw != strings.ToLower(kw) {
			return fmt.Errorf("pattern %q: keyword %q not lower-case", p.ID, kw)
		}
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("pattern %q: blank keyword", p.ID)
		}
	}
	return nil
}

// Violation is one anti-pattern match against a concrete diagram edge.
type Violation struct {
	PatternID string                  `json:"patternId"`
	Severity  datatypes.Severity      `json:"severity"`
	Message   string                  `json:"message"`
	Source    string                  `json:"source"`
	Target    string                  `json:"target"`
	SourceTyp datatypes.ComponentType `json:"sourceType"`
	TargetTyp datatypes.ComponentType `json:"targetType"`
}

// ComponentInfo is the catalog entry the inspection endpoints expose for one
// vocabulary type.
type ComponentInfo struct {
	Type        datatypes.ComponentType `json:"type"`
	Tier        datatypes.Tier          `json:"tier"`
	DisplayName string                  `json:"displayName"`
	Security    bool                    `json:"security"`
}
