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
// This file contains the fallback template matcher. When the model backend
// is unavailable or returns nothing usable, template matching is the
// deterministic path from a prompt to a complete starting diagram.
package designer

import (
	"sort"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

// MatchTemplate resolves a prompt to a reference pattern by case-insensitive
// substring matching over each pattern's Korean and English keywords, in
// ascending priority order. The catch-all pattern has no keywords and sits
// last, so every prompt resolves to something: the function is total and
// deterministic.
func (b *Builder) MatchTemplate(prompt string) *knowledge.Pattern {
	lowered := strings.ToLower(prompt)
	patterns := b.store.Patterns()
	for i := range patterns {
		p := &patterns[i]
		if len(p.Keywords) == 0 {
			return p
		}
		for _, kw := range p.Keywords {
			if strings.Contains(lowered, kw) {
				return p
			}
		}
	}
	return b.store.DefaultPattern()
}

// InstantiatePattern materializes a pattern's required components into a
// fresh spec. Nodes are created in conventional traffic order (external
// through data tier, entry-point types first within a tier) and chained
// head to tail, giving the user a connected starting point rather than a
// bag of boxes. Tier groupings are recorded as zones.
func InstantiatePattern(p *knowledge.Pattern) *datatypes.InfraSpec {
	spec := &datatypes.InfraSpec{
		Nodes:       []datatypes.InfraNode{},
		Connections: []datatypes.InfraConnection{},
	}
	if p == nil {
		return spec
	}

	ordered := orderByChain(p.Required)
	prev := ""
	for _, t := range ordered {
		id := spec.NextNodeID(t)
		spec.Nodes = append(spec.Nodes, datatypes.InfraNode{
			ID:    id,
			Type:  t,
			Label: datatypes.DefaultLabel(t, id),
		})
		if prev != "" {
			spec.Connections = append(spec.Connections, datatypes.InfraConnection{
				Source: prev,
				Target: id,
			})
		}
		prev = id
	}

	for _, n := range spec.Nodes {
		tier := string(n.Type.Tier())
		if spec.Zones == nil {
			spec.Zones = make(map[string][]string)
		}
		spec.Zones[tier] = append(spec.Zones[tier], n.ID)
	}
	return spec
}

// orderByChain returns a copy of types sorted by conventional wiring order.
// The sort is stable so duplicate types keep their relative input order.
func orderByChain(types []datatypes.ComponentType) []datatypes.ComponentType {
	out := append([]datatypes.ComponentType(nil), types...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChainIndex() < out[j].ChainIndex()
	})
	return out
}
