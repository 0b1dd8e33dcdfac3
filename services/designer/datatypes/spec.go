// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the core data structures for the designer
// service.
//
// This file contains the InfraSpec document: the typed node/connection graph
// every designer operation consumes and produces. For the component
// vocabulary see components.go, for intent extraction types see intent.go.
package datatypes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// Diagram Document Types
// =============================================================================

// InfraNode is a single component instance in a diagram.
//
// # Fields
//
//   - ID: Required. Unique within the spec and stable across edits. Generated
//     IDs follow "<prefix>-<ordinal>" (fw-1, web-2); the ordinal is the lowest
//     free one for the prefix, so removing web-1 and adding another web server
//     reuses web-1.
//   - Type: Required. One of the closed component vocabulary.
//   - Label: Optional display name. Defaults to the type's display name plus
//     the ordinal when generated.
type InfraNode struct {
	ID    string        `json:"id"`
	Type  ComponentType `json:"type"`
	Label string        `json:"label,omitempty"`
}

// InfraConnection is a directed edge between two nodes.
//
// Both endpoints must reference node IDs present in the same spec, and a
// connection never points at its own source. Validate enforces both.
type InfraConnection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// InfraSpec is a complete infrastructure diagram document.
//
// # Description
//
// InfraSpec is the unit of exchange between the builder, the knowledge layer,
// the risk assessor, and storage. Node and connection order is insertion
// order; it only affects deterministic ID generation and layout hints, never
// semantics.
//
// Treat a returned spec as immutable: builder operations deep-copy their
// input, mutate the copy, and return it. Callers replace their reference
// instead of editing in place, so a request never observes another request's
// half-applied edit.
//
// # Fields
//
//   - Nodes: Ordered component instances.
//   - Connections: Ordered directed edges over node IDs.
//   - Zones: Optional named groupings of node IDs (e.g. "dmz" -> [fw-1,
//     web-1]). Purely presentational; validation only checks membership IDs
//     exist.
type InfraSpec struct {
	Nodes       []InfraNode         `json:"nodes"`
	Connections []InfraConnection   `json:"connections"`
	Zones       map[string][]string `json:"zones,omitempty"`
}

// =============================================================================
// Copying
// =============================================================================

// Clone returns a deep copy sharing no slices or maps with the original.
// A nil receiver clones to an empty spec.
func (s *InfraSpec) Clone() *InfraSpec {
	out := &InfraSpec{}
	if s == nil {
		return out
	}
	if len(s.Nodes) > 0 {
		out.Nodes = make([]InfraNode, len(s.Nodes))
		copy(out.Nodes, s.Nodes)
	}
	if len(s.Connections) > 0 {
		out.Connections = make([]InfraConnection, len(s.Connections))
		copy(out.Connections, s.Connections)
	}
	if len(s.Zones) > 0 {
		out.Zones = make(map[string][]string, len(s.Zones))
		for name, ids := range s.Zones {
			members := make([]string, len(ids))
			copy(members, ids)
			out.Zones[name] = members
		}
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the spec's structural invariants:
//
//   - node IDs are non-empty and unique
//   - node types are within the component vocabulary
//   - every connection endpoint references an existing node
//   - no connection is a self-loop
//   - zone members reference existing nodes
//
// Builder operations guarantee their outputs pass Validate; storage and
// handlers call it on anything crossing a trust boundary.
func (s *InfraSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("spec is nil")
	}
	seen := make(map[string]struct{}, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: empty id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %q: duplicate id", n.ID)
		}
		seen[n.ID] = struct{}{}
		if !n.Type.Valid() {
			return fmt.Errorf("node %q: unknown component type %q", n.ID, n.Type)
		}
	}
	for i, c := range s.Connections {
		if _, ok := seen[c.Source]; !ok {
			return fmt.Errorf("connection %d: source %q does not exist", i, c.Source)
		}
		if _, ok := seen[c.Target]; !ok {
			return fmt.Errorf("connection %d: target %q does not exist", i, c.Target)
		}
		if c.Source == c.Target {
			return fmt.Errorf("connection %d: self-loop on %q", i, c.Source)
		}
	}
	for zone, ids := range s.Zones {
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("zone %q: member %q does not exist", zone, id)
			}
		}
	}
	return nil
}

// =============================================================================
// Lookup Helpers
// =============================================================================

// Node returns the node with the given ID, or false when absent.
func (s *InfraSpec) Node(id string) (InfraNode, bool) {
	if s == nil {
		return InfraNode{}, false
	}
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return InfraNode{}, false
}

// HasNode reports whether a node with the given ID exists.
func (s *InfraSpec) HasNode(id string) bool {
	_, ok := s.Node(id)
	return ok
}

// NodesOfType returns all nodes of the given type in insertion order.
func (s *InfraSpec) NodesOfType(t ComponentType) []InfraNode {
	if s == nil {
		return nil
	}
	var out []InfraNode
	for _, n := range s.Nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// HasType reports whether at least one node of the given type exists.
func (s *InfraSpec) HasType(t ComponentType) bool {
	return len(s.NodesOfType(t)) > 0
}

// Types returns the distinct component types present, sorted for stable
// iteration.
func (s *InfraSpec) Types() []ComponentType {
	if s == nil {
		return nil
	}
	set := make(map[ComponentType]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		set[n.Type] = struct{}{}
	}
	out := make([]ComponentType, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasConnection reports whether a directed edge source->target exists.
func (s *InfraSpec) HasConnection(source, target string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.Connections {
		if c.Source == source && c.Target == target {
			return true
		}
	}
	return false
}

// =============================================================================
// ID Generation
// =============================================================================

// NextNodeID generates the ID for a new node of type t: "<prefix>-<n>" with
// the lowest ordinal n >= 1 not already taken by an existing node. The result
// never collides with any current ID, including hand-written ones.
func (s *InfraSpec) NextNodeID(t ComponentType) string {
	prefix := t.IDPrefix()
	taken := make(map[int]struct{})
	if s != nil {
		for _, n := range s.Nodes {
			rest, ok := strings.CutPrefix(n.ID, prefix+"-")
			if !ok {
				continue
			}
			if ord, err := strconv.Atoi(rest); err == nil && ord > 0 {
				taken[ord] = struct{}{}
			}
		}
	}
	for ord := 1; ; ord++ {
		if _, used := taken[ord]; !used {
			id := fmt.Sprintf("%s-%d", prefix, ord)
			if s == nil || !s.HasNode(id) {
				return id
			}
		}
	}
}

// DefaultLabel builds the display label for a generated node: the type's
// display name plus the ID's ordinal suffix ("Firewall 1" for fw-1).
func DefaultLabel(t ComponentType, id string) string {
	if rest, ok := strings.CutPrefix(id, t.IDPrefix()+"-"); ok {
		return t.DisplayName() + " " + rest
	}
	return t.DisplayName()
}

// =============================================================================
// Mutation Helpers
// =============================================================================
//
// Builders mutate a Clone, never the caller's spec. These helpers keep the
// clone internally consistent: no duplicate edges, no self-loops, no edge or
// zone reference surviving the node it points at.

// AddConnection appends a directed edge and reports whether it was added.
// Edges to missing nodes, self-loops, and duplicates are refused.
func (s *InfraSpec) AddConnection(source, target string) bool {
	if s == nil || source == target {
		return false
	}
	if !s.HasNode(source) || !s.HasNode(target) {
		return false
	}
	if s.HasConnection(source, target) {
		return false
	}
	s.Connections = append(s.Connections, InfraConnection{Source: source, Target: target})
	return true
}

// RemoveConnection drops the directed edge source->target if present.
func (s *InfraSpec) RemoveConnection(source, target string) bool {
	if s == nil {
		return false
	}
	for i, c := range s.Connections {
		if c.Source == source && c.Target == target {
			s.Connections = append(s.Connections[:i], s.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveNode drops the node with the given ID along with every connection
// touching it and every zone reference to it. Empty zones are deleted.
func (s *InfraSpec) RemoveNode(id string) bool {
	if s == nil {
		return false
	}
	found := false
	for i, n := range s.Nodes {
		if n.ID == id {
			s.Nodes = append(s.Nodes[:i], s.Nodes[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	kept := s.Connections[:0]
	for _, c := range s.Connections {
		if c.Source != id && c.Target != id {
			kept = append(kept, c)
		}
	}
	s.Connections = kept
	for zone, ids := range s.Zones {
		members := ids[:0]
		for _, m := range ids {
			if m != id {
				members = append(members, m)
			}
		}
		if len(members) == 0 {
			delete(s.Zones, zone)
		} else {
			s.Zones[zone] = members
		}
	}
	return true
}
