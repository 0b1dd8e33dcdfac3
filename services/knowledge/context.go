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
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// NodeView is one node plus its adjacency as seen by validation: who it
// talks to, who talks to it, and its tier.
type NodeView struct {
	Node datatypes.InfraNode
	Tier datatypes.Tier

	// Incoming/Outgoing hold neighbor node IDs in connection order.
	Incoming []string
	Outgoing []string

	// IncomingTypes/OutgoingTypes hold the deduplicated neighbor component
	// types, in first-seen order.
	IncomingTypes []datatypes.ComponentType
	OutgoingTypes []datatypes.ComponentType
}

// SpecView is the derived adjacency/tier view of one diagram. Anti-pattern
// matching, dependency checks, and prompt enrichment all read this instead
// of the raw connection list.
type SpecView struct {
	Spec  *datatypes.InfraSpec
	Nodes map[string]*NodeView

	// Order preserves node insertion order for deterministic iteration.
	Order []string

	TypeCount map[datatypes.ComponentType]int
	TierCount map[datatypes.Tier]int
}

// BuildContext derives the adjacency/tier view of spec. Pure and
// O(nodes + connections); connections referencing unknown nodes are ignored
// (Validate catches them upstream).
func BuildContext(spec *datatypes.InfraSpec) *SpecView {
	view := &SpecView{
		Spec:      spec,
		Nodes:     make(map[string]*NodeView),
		TypeCount: make(map[datatypes.ComponentType]int),
		TierCount: make(map[datatypes.Tier]int),
	}
	if spec == nil {
		view.Spec = &datatypes.InfraSpec{}
		return view
	}
	for _, n := range spec.Nodes {
		if _, dup := view.Nodes[n.ID]; dup {
			continue
		}
		view.Nodes[n.ID] = &NodeView{Node: n, Tier: n.Type.Tier()}
		view.Order = append(view.Order, n.ID)
		view.TypeCount[n.Type]++
		view.TierCount[n.Type.Tier()]++
	}
	for _, c := range spec.Connections {
		src, okSrc := view.Nodes[c.Source]
		dst, okDst := view.Nodes[c.Target]
		if !okSrc || !okDst {
			continue
		}
		src.Outgoing = append(src.Outgoing, c.Target)
		dst.Incoming = append(dst.Incoming, c.Source)
		src.OutgoingTypes = appendTypeOnce(src.OutgoingTypes, dst.Node.Type)
		dst.IncomingTypes = appendTypeOnce(dst.IncomingTypes, src.Node.Type)
	}
	return view
}

func appendTypeOnce(list []datatypes.ComponentType, t datatypes.ComponentType) []datatypes.ComponentType {
	for _, have := range list {
		if have == t {
			return list
		}
	}
	return append(list, t)
}

// HasType reports whether at least one node of type t is present.
func (v *SpecView) HasType(t datatypes.ComponentType) bool {
	return v.TypeCount[t] > 0
}

// PresentTypes returns the distinct component types in node insertion order.
func (v *SpecView) PresentTypes() []datatypes.ComponentType {
	var out []datatypes.ComponentType
	for _, id := range v.Order {
		out = appendTypeOnce(out, v.Nodes[id].Node.Type)
	}
	return out
}

// Summary renders the diagram as the short natural-language description the
// intent prompt embeds: nodes grouped by tier, then the connection list.
// An empty diagram summarizes as "(empty diagram)".
func (v *SpecView) Summary() string {
	if len(v.Order) == 0 {
		return "(empty diagram)"
	}
	var b strings.Builder
	for _, tier := range []datatypes.Tier{datatypes.TierExternal, datatypes.TierDMZ, datatypes.TierInternal, datatypes.TierData} {
		var members []string
		for _, id := range v.Order {
			nv := v.Nodes[id]
			if nv.Tier == tier {
				members = append(members, fmt.Sprintf("%s (%s)", nv.Node.ID, nv.Node.Type))
			}
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", tier, strings.Join(members, ", "))
	}
	if len(v.Spec.Connections) > 0 {
		var edges []string
		for _, c := range v.Spec.Connections {
			edges = append(edges, fmt.Sprintf("%s -> %s", c.Source, c.Target))
		}
		fmt.Fprintf(&b, "connections: %s\n", strings.Join(edges, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
