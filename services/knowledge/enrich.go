// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// ConflictWarnings returns one warning per conflict relationship whose two
// endpoint types are both present in the view. Each relationship is reported
// once no matter how many node instances are involved; order follows node
// insertion order of the first endpoint seen.
func (s *Store) ConflictWarnings(view *SpecView) []datatypes.Warning {
	var out []datatypes.Warning
	seen := make(map[string]struct{})
	for _, t := range view.PresentTypes() {
		for _, r := range s.ConflictsFor(t) {
			key := string(r.Source) + "|" + string(r.Target)
			if _, dup := seen[key]; dup {
				continue
			}
			if !view.HasType(r.Source) || !view.HasType(r.Target) {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, datatypes.Warning{
				Type:       datatypes.WarningConflict,
				Severity:   r.Strength.WarningSeverity(),
				Message:    r.Reason.Render(),
				Components: []datatypes.ComponentType{r.Source, r.Target},
			})
		}
	}
	return out
}

// MissingDependencies returns suggestions for components the present types
// depend on but the diagram lacks. Mandatory requires come first, then
// recommended ones; each missing component is suggested once, with the
// mandatory kind winning when both apply.
func (s *Store) MissingDependencies(view *SpecView) []datatypes.Suggestion {
	var out []datatypes.Suggestion
	suggested := make(map[datatypes.ComponentType]struct{})

	present := view.PresentTypes()
	for _, t := range present {
		for _, r := range s.MandatoryDependenciesFor(t) {
			if view.HasType(r.Target) {
				continue
			}
			if _, dup := suggested[r.Target]; dup {
				continue
			}
			suggested[r.Target] = struct{}{}
			out = append(out, datatypes.Suggestion{
				Type:      datatypes.SuggestionMandatory,
				Component: r.Target,
				Reason:    r.Reason.Render(),
			})
		}
	}
	for _, t := range present {
		for _, r := range s.RecommendedFor(t) {
			if view.HasType(r.Target) {
				continue
			}
			if _, dup := suggested[r.Target]; dup {
				continue
			}
			suggested[r.Target] = struct{}{}
			out = append(out, datatypes.Suggestion{
				Type:      datatypes.SuggestionRecommended,
				Component: r.Target,
				Reason:    r.Reason.Render(),
			})
		}
	}
	return out
}

// RiskNote is one failure scenario relevant to the current diagram, rendered
// for prompt enrichment.
type RiskNote struct {
	Component  datatypes.ComponentType `json:"component"`
	Impact     string                  `json:"impact"`
	Level      datatypes.Severity      `json:"level"`
	Likelihood Likelihood              `json:"likelihood"`
	Mitigation string                  `json:"mitigation"`
}

// EnrichedContext is everything the knowledge layer wants the model to know
// about the current diagram before interpreting the next prompt.
type EnrichedContext struct {
	Violations  []Violation            `json:"violations"`
	Suggestions []datatypes.Suggestion `json:"suggestions"`
	Risks       []RiskNote             `json:"risks"`
}

// Empty reports whether enrichment found nothing worth telling the model.
func (ec *EnrichedContext) Empty() bool {
	return ec == nil || (len(ec.Violations) == 0 && len(ec.Suggestions) == 0 && len(ec.Risks) == 0)
}

// EnrichOptions bound the enrichment output so prompts stay small.
type EnrichOptions struct {
	// MaxRisks caps the failure-risk notes; 0 means DefaultMaxRisks.
	MaxRisks int
}

// DefaultMaxRisks caps failure-risk notes per enrichment.
const DefaultMaxRisks = 5

// Enrich runs anti-pattern matching, dependency checks, and failure lookup
// over the view and packages the result for prompt building.
//
// Risk notes cover the most severe scenarios for the present component
// types: critical or high impact first, ties broken by likelihood then
// component name, truncated to opts.MaxRisks.
func (s *Store) Enrich(view *SpecView, opts EnrichOptions) *EnrichedContext {
	maxRisks := opts.MaxRisks
	if maxRisks <= 0 {
		maxRisks = DefaultMaxRisks
	}

	ec := &EnrichedContext{
		Violations:  s.MatchAntiPatterns(view),
		Suggestions: s.MissingDependencies(view),
	}

	var notes []RiskNote
	for _, t := range view.PresentTypes() {
		for _, f := range s.FailuresFor(t) {
			notes = append(notes, RiskNote{
				Component:  f.Component,
				Impact:     f.Impact.Render(),
				Level:      f.ImpactLevel,
				Likelihood: f.Likelihood,
				Mitigation: f.Mitigation.Render(),
			})
		}
	}
	likelihoodRank := map[Likelihood]int{LikelihoodLow: 1, LikelihoodMedium: 2, LikelihoodHigh: 3}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Level.Rank() != notes[j].Level.Rank() {
			return notes[i].Level.Rank() > notes[j].Level.Rank()
		}
		if likelihoodRank[notes[i].Likelihood] != likelihoodRank[notes[j].Likelihood] {
			return likelihoodRank[notes[i].Likelihood] > likelihoodRank[notes[j].Likelihood]
		}
		return notes[i].Component < notes[j].Component
	})
	if len(notes) > maxRisks {
		notes = notes[:maxRisks]
	}
	ec.Risks = notes
	return ec
}

// PromptSection renders the enrichment as the guidance block appended to the
// intent system instruction. Returns "" when there is nothing to say, so the
// base instruction goes out untouched.
func PromptSection(ec *EnrichedContext) string {
	if ec.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("## 현재 아키텍처 지식 (Current architecture knowledge)\n")

	if len(ec.Violations) > 0 {
		b.WriteString("\n### 위반 사항 (Violations)\n")
		for _, v := range ec.Violations {
			fmt.Fprintf(&b, "- [%s] %s -> %s: %s\n", v.Severity, v.Source, v.Target, v.Message)
		}
	}
	if len(ec.Suggestions) > 0 {
		b.WriteString("\n### 누락 구성 요소 (Missing components)\n")
		for _, sg := range ec.Suggestions {
			fmt.Fprintf(&b, "- %s (%s): %s\n", sg.Component, sg.Type, sg.Reason)
		}
	}
	if len(ec.Risks) > 0 {
		b.WriteString("\n### 장애 리스크 (Failure risks)\n")
		for _, r := range ec.Risks {
			fmt.Fprintf(&b, "- %s [%s, likelihood %s]: %s / 대응: %s\n",
				r.Component, r.Level, r.Likelihood, r.Impact, r.Mitigation)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
