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
// This file contains the explanation text builders. Pattern and component
// names render bilingually (Korean with the English in parentheses) because
// the corpus carries both.
package designer

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

// explainCreate describes a freshly generated diagram: the pattern it came
// from, anything the prompt added beyond it, and where the pattern can grow.
func (b *Builder) explainCreate(pattern *knowledge.Pattern, extras []datatypes.InfraNode, spec *datatypes.InfraSpec) string {
	var sb strings.Builder
	if pattern != nil {
		fmt.Fprintf(&sb, "Created the %s pattern with %d components.",
			pattern.Name.Render(), len(spec.Nodes))
	} else {
		fmt.Fprintf(&sb, "Created a diagram with %d components.", len(spec.Nodes))
	}
	if len(extras) > 0 {
		sb.WriteString(" Added from the prompt: ")
		sb.WriteString(nodeList(extras))
		sb.WriteString(".")
	}
	if pattern != nil && len(pattern.EvolvesTo) > 0 {
		var names []string
		for _, id := range pattern.EvolvesTo {
			if next, ok := b.store.PatternByID(id); ok {
				names = append(names, next.Name.Render())
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(&sb, " This design can grow into: %s.", strings.Join(names, ", "))
		}
	}
	return sb.String()
}

// explainAdd describes appended nodes.
func explainAdd(added []datatypes.InfraNode) string {
	if len(added) == 1 {
		return fmt.Sprintf("Added %s.", nodeRef(added[0]))
	}
	return fmt.Sprintf("Added %d components: %s.", len(added), nodeList(added))
}

// explainRemove describes deleted nodes.
func explainRemove(removed []datatypes.InfraNode) string {
	if len(removed) == 1 {
		return fmt.Sprintf("Removed %s.", nodeRef(removed[0]))
	}
	return fmt.Sprintf("Removed %d components: %s.", len(removed), nodeList(removed))
}

// describeHint renders a position hint for explanation text.
func describeHint(hint *datatypes.PositionHint) string {
	switch hint.Relation {
	case datatypes.PositionInFront:
		return fmt.Sprintf("in front of the %s", hint.Anchor)
	case datatypes.PositionBehind:
		return fmt.Sprintf("behind the %s", hint.Anchor)
	case datatypes.PositionBetween:
		return fmt.Sprintf("between the %s and the %s", hint.Anchor, hint.SecondAnchor)
	case datatypes.PositionReplace:
		return fmt.Sprintf("in place of the %s", hint.Anchor)
	}
	return fmt.Sprintf("next to the %s", hint.Anchor)
}

func nodeRef(n datatypes.InfraNode) string {
	return fmt.Sprintf("%s (%s)", n.Label, n.ID)
}

func nodeList(nodes []datatypes.InfraNode) string {
	refs := make([]string, len(nodes))
	for i, n := range nodes {
		refs[i] = nodeRef(n)
	}
	return strings.Join(refs, ", ")
}
