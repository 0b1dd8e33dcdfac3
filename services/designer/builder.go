// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package designer builds and mutates infrastructure diagrams from
// free-text prompts, validating every result against the knowledge graph.
//
// This file contains the Builder and its three entry points: Create, Add,
// and Modify. All three are pure functions over their inputs; the model
// call, if any, happens in the caller and arrives here as an already-parsed
// intent.
package designer

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

// =============================================================================
// Builder
// =============================================================================

// Builder turns prompts and intents into diagram mutations.
//
// # Description
//
// Every entry point returns a BuildResult and never an error: failure is a
// result state (Success false, Error set), not an exception, so callers have
// exactly one shape to handle. Successful mutations operate on a clone of
// the caller's spec (the input is never touched) and end with a knowledge
// review of the final state: conflicting co-present components become
// warnings, absent dependencies become suggestions.
//
// A Builder is stateless apart from the read-only knowledge store and is
// safe for concurrent use.
type Builder struct {
	store *knowledge.Store
}

// NewBuilder returns a Builder backed by the given knowledge store.
func NewBuilder(store *knowledge.Store) *Builder {
	return &Builder{store: store}
}

// CreateOptions controls how Create derives the initial diagram.
//
// # Fields
//
//   - UseTemplates: Match the prompt against reference patterns and
//     instantiate the winner as the base diagram. The catch-all pattern
//     guarantees a match, so with this enabled Create always succeeds.
//   - UseComponentDetection: Run the rule-based detector over the prompt and
//     add any mentioned component the template did not already place.
//   - Intent: A model-derived intent, when the caller got one. Takes the
//     place of rule-based detection; nil means fall back to the local rules.
type CreateOptions struct {
	UseTemplates          bool
	UseComponentDetection bool
	Intent                *datatypes.IntentAnalysis
}

// DefaultCreateOptions enables both the template and detection paths.
func DefaultCreateOptions() CreateOptions {
	return CreateOptions{UseTemplates: true, UseComponentDetection: true}
}

// =============================================================================
// Entry Points
// =============================================================================

// Create builds a fresh diagram from a prompt.
//
// The template matcher picks the base pattern; the intent (model-derived or
// rule-based) adds any component the prompt mentions beyond it. With
// templates disabled, the prompt must name at least one component or the
// call fails.
func (b *Builder) Create(prompt string, opts CreateOptions) datatypes.BuildResult {
	intent := opts.Intent
	if intent == nil && opts.UseComponentDetection {
		intent = DetectIntent(prompt, nil)
	}

	var spec *datatypes.InfraSpec
	var pattern *knowledge.Pattern
	if opts.UseTemplates {
		pattern = b.MatchTemplate(prompt)
		spec = InstantiatePattern(pattern)
	} else {
		spec = &datatypes.InfraSpec{
			Nodes:       []datatypes.InfraNode{},
			Connections: []datatypes.InfraConnection{},
		}
	}

	var extras []datatypes.InfraNode
	if intent != nil {
		label, hint := singleTarget(intent)
		for _, t := range intent.Components {
			if spec.HasType(t) {
				continue
			}
			extras = append(extras, b.addNode(spec, t, label, hint))
		}
	}

	if len(spec.Nodes) == 0 {
		return datatypes.Failure("no recognizable component or architecture in the prompt")
	}

	warnings, suggestions := b.review(spec)
	return datatypes.BuildResult{
		Success:     true,
		Spec:        spec,
		CommandType: datatypes.CommandCreate,
		Warnings:    warnings,
		Suggestions: suggestions,
		Explanation: b.explainCreate(pattern, extras, spec),
	}
}

// Add appends the prompt's components to an existing diagram.
//
// The current spec is required and never mutated: the result carries a
// wired clone. New nodes get collision-free IDs and connect by tier
// adjacency unless the intent carries a position hint.
func (b *Builder) Add(prompt string, current *datatypes.InfraSpec, intent *datatypes.IntentAnalysis) datatypes.BuildResult {
	if current == nil {
		return datatypes.Failure("add requires an existing diagram")
	}
	if intent == nil {
		intent = DetectIntent(prompt, current)
	}
	if intent == nil || len(intent.Components) == 0 {
		return datatypes.Failure("no recognizable component in the prompt")
	}

	next := current.Clone()
	label, hint := singleTarget(intent)
	added := make([]datatypes.InfraNode, 0, len(intent.Components))
	for _, t := range intent.Components {
		added = append(added, b.addNode(next, t, label, hint))
	}

	warnings, suggestions := b.review(next)
	return datatypes.BuildResult{
		Success:     true,
		Spec:        next,
		CommandType: datatypes.CommandAdd,
		Warnings:    warnings,
		Suggestions: suggestions,
		Explanation: explainAdd(added),
	}
}

// Modify applies a removal, relabel, or reposition to an existing diagram.
//
// Targets resolve first by literal node ID in the prompt ("remove fw-1"),
// then by component type. Like Add, the current spec is never mutated.
func (b *Builder) Modify(prompt string, current *datatypes.InfraSpec, intent *datatypes.IntentAnalysis) datatypes.BuildResult {
	if current == nil {
		return datatypes.Failure("modify requires an existing diagram")
	}
	if intent == nil {
		intent = DetectIntent(prompt, current)
	}
	if intent == nil {
		return datatypes.Failure("could not determine the requested change")
	}

	switch intent.Action {
	case datatypes.ActionRemove:
		return b.applyRemove(prompt, current, intent)
	case datatypes.ActionModify:
		if intent.Position != nil {
			return b.applyReposition(current, intent)
		}
		if intent.Label != "" {
			return b.applyRelabel(prompt, current, intent)
		}
		return datatypes.Failure("could not determine the requested change")
	default:
		return datatypes.Failure("prompt does not describe a modification")
	}
}

// =============================================================================
// Modification Paths
// =============================================================================

// applyRemove deletes the targeted nodes. When a removed node bridged two
// surviving nodes, the bridge is restored (P->X->S collapses to P->S) so the
// diagram stays connected.
func (b *Builder) applyRemove(prompt string, current *datatypes.InfraSpec, intent *datatypes.IntentAnalysis) datatypes.BuildResult {
	targets := resolveTargets(prompt, current, intent.Components)
	if len(targets) == 0 {
		return datatypes.Failure("no matching component to remove")
	}

	next := current.Clone()
	removed := make([]datatypes.InfraNode, 0, len(targets))
	for _, id := range targets {
		node, ok := next.Node(id)
		if !ok {
			continue
		}
		var sources, sinks []string
		for _, c := range next.Connections {
			if c.Target == id && c.Source != id {
				sources = append(sources, c.Source)
			}
			if c.Source == id && c.Target != id {
				sinks = append(sinks, c.Target)
			}
		}
		next.RemoveNode(id)
		removed = append(removed, node)
		for _, src := range sources {
			for _, dst := range sinks {
				next.AddConnection(src, dst)
			}
		}
	}

	warnings, suggestions := b.review(next)
	return datatypes.BuildResult{
		Success:     true,
		Spec:        next,
		CommandType: datatypes.CommandModify,
		Warnings:    warnings,
		Suggestions: suggestions,
		Explanation: explainRemove(removed),
	}
}

// applyRelabel changes the display label of one node.
func (b *Builder) applyRelabel(prompt string, current *datatypes.InfraSpec, intent *datatypes.IntentAnalysis) datatypes.BuildResult {
	targets := resolveTargets(prompt, current, intent.Components)
	if len(targets) == 0 {
		return datatypes.Failure("no matching component to relabel")
	}

	next := current.Clone()
	var relabeled datatypes.InfraNode
	for i := range next.Nodes {
		if next.Nodes[i].ID == targets[0] {
			next.Nodes[i].Label = intent.Label
			relabeled = next.Nodes[i]
			break
		}
	}

	warnings, suggestions := b.review(next)
	return datatypes.BuildResult{
		Success:     true,
		Spec:        next,
		CommandType: datatypes.CommandModify,
		Warnings:    warnings,
		Suggestions: suggestions,
		Explanation: fmt.Sprintf("Renamed %s to %q.", relabeled.ID, intent.Label),
	}
}

// applyReposition rewires one node according to the position hint. A
// "replace" hint against a type not yet in the diagram adds the node in the
// anchor's place instead.
func (b *Builder) applyReposition(current *datatypes.InfraSpec, intent *datatypes.IntentAnalysis) datatypes.BuildResult {
	if len(intent.Components) == 0 {
		return datatypes.Failure("could not determine which component to move")
	}
	t := intent.Components[0]
	next := current.Clone()

	nodes := next.NodesOfType(t)
	if len(nodes) == 0 {
		if intent.Position.Relation == datatypes.PositionReplace {
			node := b.addNode(next, t, intent.Label, intent.Position)
			warnings, suggestions := b.review(next)
			return datatypes.BuildResult{
				Success:     true,
				Spec:        next,
				CommandType: datatypes.CommandModify,
				Warnings:    warnings,
				Suggestions: suggestions,
				Explanation: explainAdd([]datatypes.InfraNode{node}),
			}
		}
		return datatypes.Failure(fmt.Sprintf("no %s in the diagram to move", t))
	}

	node := nodes[0]
	detach(next, node.ID)
	b.wireNode(next, node, intent.Position)

	warnings, suggestions := b.review(next)
	return datatypes.BuildResult{
		Success:     true,
		Spec:        next,
		CommandType: datatypes.CommandModify,
		Warnings:    warnings,
		Suggestions: suggestions,
		Explanation: fmt.Sprintf("Moved %s %s.", node.ID, describeHint(intent.Position)),
	}
}

// =============================================================================
// Node Placement & Wiring
// =============================================================================

// addNode creates a node of type t with a collision-free ID, appends it to
// the spec, wires it, and registers it in the matching tier zone when the
// spec tracks zones.
func (b *Builder) addNode(spec *datatypes.InfraSpec, t datatypes.ComponentType, label string, hint *datatypes.PositionHint) datatypes.InfraNode {
	id := spec.NextNodeID(t)
	if label == "" {
		label = datatypes.DefaultLabel(t, id)
	}
	node := datatypes.InfraNode{ID: id, Type: t, Label: label}
	spec.Nodes = append(spec.Nodes, node)
	if spec.Zones != nil {
		tier := string(t.Tier())
		spec.Zones[tier] = append(spec.Zones[tier], id)
	}
	b.wireNode(spec, node, hint)
	return node
}

// wireNode connects a node into the diagram. A usable position hint wins;
// otherwise the node splices into the conventional tier chain between its
// nearest present neighbors. Every edge is built from nodes actually in the
// spec, so a dangling endpoint cannot be emitted.
func (b *Builder) wireNode(spec *datatypes.InfraSpec, node datatypes.InfraNode, hint *datatypes.PositionHint) {
	if hint != nil && b.wireByHint(spec, node, hint) {
		return
	}

	rank := node.Type.ChainIndex()
	var pred, succ *datatypes.InfraNode
	predRank, succRank := -1, -1
	for i := range spec.Nodes {
		n := &spec.Nodes[i]
		if n.ID == node.ID {
			continue
		}
		r := n.Type.ChainIndex()
		if r < rank && (pred == nil || r > predRank) {
			pred, predRank = n, r
		}
		if r > rank && (succ == nil || r < succRank) {
			succ, succRank = n, r
		}
	}

	if pred != nil && succ != nil && spec.HasConnection(pred.ID, succ.ID) {
		spec.RemoveConnection(pred.ID, succ.ID)
	}
	if pred != nil {
		spec.AddConnection(pred.ID, node.ID)
	}
	if succ != nil {
		spec.AddConnection(node.ID, succ.ID)
	}
}

// wireByHint applies a position hint. Returns false when the anchor (or,
// for "between", either anchor) is not in the diagram, which sends the
// caller down the tier-adjacency path.
func (b *Builder) wireByHint(spec *datatypes.InfraSpec, node datatypes.InfraNode, hint *datatypes.PositionHint) bool {
	anchors := spec.NodesOfType(hint.Anchor)
	if len(anchors) == 0 {
		return false
	}
	anchor := anchors[0]
	rank := node.Type.ChainIndex()

	switch hint.Relation {
	case datatypes.PositionInFront:
		// Upstream traffic that reached the anchor now passes the new node
		// first. Downstream backflows (higher chain rank) stay put.
		var rewire []string
		for _, c := range spec.Connections {
			if c.Target != anchor.ID || c.Source == node.ID {
				continue
			}
			if src, ok := spec.Node(c.Source); ok && src.Type.ChainIndex() <= rank {
				rewire = append(rewire, c.Source)
			}
		}
		for _, src := range rewire {
			spec.RemoveConnection(src, anchor.ID)
			spec.AddConnection(src, node.ID)
		}
		spec.AddConnection(node.ID, anchor.ID)
		return true

	case datatypes.PositionBehind:
		var rewire []string
		for _, c := range spec.Connections {
			if c.Source != anchor.ID || c.Target == node.ID {
				continue
			}
			if dst, ok := spec.Node(c.Target); ok && dst.Type.ChainIndex() >= rank {
				rewire = append(rewire, c.Target)
			}
		}
		for _, dst := range rewire {
			spec.RemoveConnection(anchor.ID, dst)
			spec.AddConnection(node.ID, dst)
		}
		spec.AddConnection(anchor.ID, node.ID)
		return true

	case datatypes.PositionBetween:
		seconds := spec.NodesOfType(hint.SecondAnchor)
		if len(seconds) == 0 {
			return false
		}
		second := seconds[0]
		switch {
		case spec.HasConnection(anchor.ID, second.ID):
			spec.RemoveConnection(anchor.ID, second.ID)
			spec.AddConnection(anchor.ID, node.ID)
			spec.AddConnection(node.ID, second.ID)
		case spec.HasConnection(second.ID, anchor.ID):
			spec.RemoveConnection(second.ID, anchor.ID)
			spec.AddConnection(second.ID, node.ID)
			spec.AddConnection(node.ID, anchor.ID)
		default:
			spec.AddConnection(anchor.ID, node.ID)
			spec.AddConnection(node.ID, second.ID)
		}
		return true

	case datatypes.PositionReplace:
		for _, c := range append([]datatypes.InfraConnection(nil), spec.Connections...) {
			if c.Target == anchor.ID && c.Source != node.ID {
				spec.AddConnection(c.Source, node.ID)
			}
			if c.Source == anchor.ID && c.Target != node.ID {
				spec.AddConnection(node.ID, c.Target)
			}
		}
		spec.RemoveNode(anchor.ID)
		return true
	}
	return false
}

// detach removes every connection touching the node.
func detach(spec *datatypes.InfraSpec, id string) {
	kept := spec.Connections[:0]
	for _, c := range spec.Connections {
		if c.Source != id && c.Target != id {
			kept = append(kept, c)
		}
	}
	spec.Connections = kept
}

// =============================================================================
// Shared Helpers
// =============================================================================

// review runs the knowledge validation every successful mutation ends with:
// conflicts between present components become warnings, missing dependencies
// become suggestions. Both are nil when clean.
func (b *Builder) review(spec *datatypes.InfraSpec) ([]datatypes.Warning, []datatypes.Suggestion) {
	view := knowledge.BuildContext(spec)
	return b.store.ConflictWarnings(view), b.store.MissingDependencies(view)
}

// singleTarget returns the intent's label and position hint when exactly one
// component is requested; with several, neither can be attributed to a
// specific node and both are dropped.
func singleTarget(intent *datatypes.IntentAnalysis) (string, *datatypes.PositionHint) {
	if len(intent.Components) != 1 {
		return "", nil
	}
	return intent.Label, intent.Position
}

// resolveTargets maps a modification prompt to concrete node IDs: literal
// IDs mentioned in the prompt win; otherwise every node of each named type
// is targeted.
func resolveTargets(prompt string, spec *datatypes.InfraSpec, types []datatypes.ComponentType) []string {
	lowered := strings.ToLower(prompt)
	var literal []string
	for _, n := range spec.Nodes {
		if containsID(lowered, strings.ToLower(n.ID)) {
			literal = append(literal, n.ID)
		}
	}
	if len(literal) > 0 {
		return literal
	}
	var out []string
	for _, t := range types {
		for _, n := range spec.NodesOfType(t) {
			out = append(out, n.ID)
		}
	}
	return out
}

// containsID reports whether the prompt mentions the node ID as a whole
// token, so "fw-1" does not match inside "fw-10".
func containsID(lowered, id string) bool {
	from := 0
	for {
		idx := strings.Index(lowered[from:], id)
		if idx < 0 {
			return false
		}
		idx += from
		startOK := idx == 0 || !isWordByte(lowered[idx-1])
		end := idx + len(id)
		endOK := end == len(lowered) || (!isWordByte(lowered[end]) && lowered[end] != '-')
		if startOK && endOK {
			return true
		}
		from = idx + 1
	}
}
