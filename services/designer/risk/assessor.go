// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package risk scores the difference between two infrastructure specs.
//
// The assessor is pure and deterministic: set diffs over node IDs and
// connection pairs, weighted by what the knowledge graph says about the
// components involved. Removing a security component always weighs at least
// high; introducing an anti-pattern weighs whatever the corpus assigns it.
package risk

import (
	"fmt"
	"sort"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

// Assessor computes change risk against a loaded knowledge store.
//
// # Thread Safety
//
// Assessor is safe for concurrent use; it holds only the read-only store.
type Assessor struct {
	store *knowledge.Store
}

// NewAssessor returns an Assessor backed by the given knowledge store.
func NewAssessor(store *knowledge.Store) *Assessor {
	return &Assessor{store: store}
}

// Assess compares two specs and reports the risk of moving from before to
// after. A nil spec on either side is treated as empty, so assessing a
// brand-new diagram against nothing is valid.
func (a *Assessor) Assess(before, after *datatypes.InfraSpec) ChangeRisk {
	if before == nil {
		before = &datatypes.InfraSpec{}
	}
	if after == nil {
		after = &datatypes.InfraSpec{}
	}

	beforeNodes := nodeIndex(before)
	afterNodes := nodeIndex(after)

	var summary Summary
	var factors []Factor

	for _, n := range after.Nodes {
		if _, existed := beforeNodes[n.ID]; existed {
			continue
		}
		summary.AddedNodes++
		if n.Type.IsSecurity() {
			factors = append(factors, Factor{
				Severity:  datatypes.SeverityLow,
				Category:  CategorySecurityAdded,
				Message:   fmt.Sprintf("added %s %s, reducing exposure", n.Type, n.ID),
				Component: n.ID,
			})
		}
	}

	for _, n := range before.Nodes {
		cur, kept := afterNodes[n.ID]
		if !kept {
			summary.RemovedNodes++
			factors = append(factors, a.removalFactor(n))
			continue
		}
		if cur.Type != n.Type || cur.Label != n.Label {
			summary.ModifiedNodes++
		}
		if cur.Type != n.Type {
			factors = append(factors, retypeFactor(n, cur))
		}
	}

	beforeConns := connIndex(before)
	afterConns := connIndex(after)
	for key := range afterConns {
		if _, existed := beforeConns[key]; !existed {
			summary.AddedConnections++
		}
	}
	for key := range beforeConns {
		if _, kept := afterConns[key]; !kept {
			summary.RemovedConnections++
		}
	}

	factors = append(factors, a.newViolationFactors(before, after)...)

	level := datatypes.SeverityLow
	for _, f := range factors {
		if f.Severity.Rank() > level.Rank() {
			level = f.Severity
		}
	}

	sort.SliceStable(factors, func(i, j int) bool {
		if factors[i].Severity.Rank() != factors[j].Severity.Rank() {
			return factors[i].Severity.Rank() > factors[j].Severity.Rank()
		}
		if factors[i].Category != factors[j].Category {
			return factors[i].Category < factors[j].Category
		}
		return factors[i].Message < factors[j].Message
	})

	return ChangeRisk{Level: level, Factors: factors, Summary: summary}
}

// removalFactor weighs one removed node. Security components weigh at least
// high, critical when the corpus marks their failure impact critical.
// Non-security components weigh medium when their failure impact reaches
// high, low otherwise, so they always grade below any security removal.
func (a *Assessor) removalFactor(n datatypes.InfraNode) Factor {
	impact := a.worstImpact(n.Type)
	if n.Type.IsSecurity() {
		sev := datatypes.SeverityHigh
		if impact == datatypes.SeverityCritical {
			sev = datatypes.SeverityCritical
		}
		return Factor{
			Severity:  sev,
			Category:  CategorySecurityRemoved,
			Message:   fmt.Sprintf("removed security component %s %s", n.Type, n.ID),
			Component: n.ID,
		}
	}
	sev := datatypes.SeverityLow
	if impact.Rank() >= datatypes.SeverityHigh.Rank() {
		sev = datatypes.SeverityMedium
	}
	return Factor{
		Severity:  sev,
		Category:  CategoryComponentRemoved,
		Message:   fmt.Sprintf("removed %s %s", n.Type, n.ID),
		Component: n.ID,
	}
}

// retypeFactor weighs a node whose ID survived but whose type changed.
// Silently swapping a security component for something else is a high-risk
// edit; any other retype is low.
func retypeFactor(old, cur datatypes.InfraNode) Factor {
	sev := datatypes.SeverityLow
	msg := fmt.Sprintf("%s changed type from %s to %s", old.ID, old.Type, cur.Type)
	if old.Type.IsSecurity() && !cur.Type.IsSecurity() {
		sev = datatypes.SeverityHigh
		msg = fmt.Sprintf("%s changed from security component %s to %s", old.ID, old.Type, cur.Type)
	}
	return Factor{Severity: sev, Category: CategoryNodeRetyped, Message: msg, Component: old.ID}
}

// newViolationFactors reports anti-pattern matches present in after but not
// in before, at the anti-pattern's own severity.
func (a *Assessor) newViolationFactors(before, after *datatypes.InfraSpec) []Factor {
	seen := make(map[string]struct{})
	for _, v := range a.store.MatchAntiPatterns(knowledge.BuildContext(before)) {
		seen[violationKey(v)] = struct{}{}
	}

	var out []Factor
	for _, v := range a.store.MatchAntiPatterns(knowledge.BuildContext(after)) {
		if _, existed := seen[violationKey(v)]; existed {
			continue
		}
		out = append(out, Factor{
			Severity:  v.Severity,
			Category:  CategoryAntiPattern,
			Message:   v.Message,
			Component: v.Source + "->" + v.Target,
		})
	}
	return out
}

// worstImpact returns the highest failure-scenario impact recorded for a
// component type, or low when the corpus has none.
func (a *Assessor) worstImpact(t datatypes.ComponentType) datatypes.Severity {
	worst := datatypes.SeverityLow
	for _, f := range a.store.FailuresFor(t) {
		if f.ImpactLevel.Rank() > worst.Rank() {
			worst = f.ImpactLevel
		}
	}
	return worst
}

// violationKey identifies a violation by rule and edge, so a violation that
// existed before the change is not re-reported after it.
func violationKey(v knowledge.Violation) string {
	return v.PatternID + "|" + v.Source + "|" + v.Target
}

func nodeIndex(spec *datatypes.InfraSpec) map[string]datatypes.InfraNode {
	idx := make(map[string]datatypes.InfraNode, len(spec.Nodes))
	for _, n := range spec.Nodes {
		idx[n.ID] = n
	}
	return idx
}

func connIndex(spec *datatypes.InfraSpec) map[string]struct{} {
	idx := make(map[string]struct{}, len(spec.Connections))
	for _, c := range spec.Connections {
		idx[c.Source+"->"+c.Target] = struct{}{}
	}
	return idx
}
