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
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// Store is the loaded, immutable knowledge graph.
//
// Load builds adjacency maps keyed by component type so per-type lookups
// never scan the whole corpus. A load failure means the binary shipped with a
// broken corpus; callers treat it as fatal rather than running without
// guardrails.
type Store struct {
	bySource  map[datatypes.ComponentType][]Relationship
	conflicts map[datatypes.ComponentType][]Relationship
	failures  map[datatypes.ComponentType][]FailureScenario

	antiPatterns []AntiPattern
	patterns     []Pattern
	patternByID  map[string]*Pattern
}

type relationshipFile struct {
	Relationships []Relationship `yaml:"relationships"`
}

type antiPatternFile struct {
	AntiPatterns []AntiPattern `yaml:"antiPatterns"`
}

type failureFile struct {
	FailureScenarios []FailureScenario `yaml:"failureScenarios"`
}

type patternFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Load parses and validates the embedded corpus.
//
// It performs the following operations:
//  1. Unmarshals the four embedded YAML documents.
//  2. Validates every entity against the component vocabulary.
//  3. Builds the per-type adjacency indexes and sorts patterns by priority.
//
// Returns an error if any document is malformed or any entity fails
// validation; the store is unusable in that case.
func Load() (*Store, error) {
	return load(corpusRelationships, corpusAntiPatterns, corpusFailureScenarios, corpusPatterns)
}

// LoadDir loads a corpus from the four YAML files in dir instead of the
// embedded one. Used by the corpus lint command to check an edited corpus
// before it is baked into a build.
func LoadDir(dir string) (*Store, error) {
	read := func(name string) ([]byte, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read corpus file: %w", err)
		}
		return b, nil
	}
	rel, err := read("relationships.yaml")
	if err != nil {
		return nil, err
	}
	ap, err := read("anti_patterns.yaml")
	if err != nil {
		return nil, err
	}
	fs, err := read("failure_scenarios.yaml")
	if err != nil {
		return nil, err
	}
	pat, err := read("patterns.yaml")
	if err != nil {
		return nil, err
	}
	return load(rel, ap, fs, pat)
}

func load(relBytes, apBytes, fsBytes, patBytes []byte) (*Store, error) {
	var rels relationshipFile
	if err := yaml.Unmarshal(relBytes, &rels); err != nil {
		return nil, fmt.Errorf("unmarshal relationships: %w", err)
	}
	var aps antiPatternFile
	if err := yaml.Unmarshal(apBytes, &aps); err != nil {
		return nil, fmt.Errorf("unmarshal anti-patterns: %w", err)
	}
	var fails failureFile
	if err := yaml.Unmarshal(fsBytes, &fails); err != nil {
		return nil, fmt.Errorf("unmarshal failure scenarios: %w", err)
	}
	var pats patternFile
	if err := yaml.Unmarshal(patBytes, &pats); err != nil {
		return nil, fmt.Errorf("unmarshal patterns: %w", err)
	}

	s := &Store{
		bySource:    make(map[datatypes.ComponentType][]Relationship),
		conflicts:   make(map[datatypes.ComponentType][]Relationship),
		failures:    make(map[datatypes.ComponentType][]FailureScenario),
		patternByID: make(map[string]*Pattern),
	}

	for i, r := range rels.Relationships {
		if err := r.validate(i); err != nil {
			return nil, err
		}
		if r.Direction == "" {
			r.Direction = DirectionOneWay
		}
		s.bySource[r.Source] = append(s.bySource[r.Source], r)
		if r.Direction == DirectionBidirectional && r.Target != r.Source {
			s.bySource[r.Target] = append(s.bySource[r.Target], r)
		}
		if r.Type == RelationshipConflicts {
			// Conflicts read both ways regardless of declared direction:
			// co-presence is what matters.
			s.conflicts[r.Source] = append(s.conflicts[r.Source], r)
			if r.Target != r.Source {
				s.conflicts[r.Target] = append(s.conflicts[r.Target], r)
			}
		}
	}

	for _, ap := range aps.AntiPatterns {
		if err := ap.validate(); err != nil {
			return nil, err
		}
		s.antiPatterns = append(s.antiPatterns, ap)
	}

	for i, f := range fails.FailureScenarios {
		if err := f.validate(i); err != nil {
			return nil, err
		}
		s.failures[f.Component] = append(s.failures[f.Component], f)
	}

	catchAll := 0
	for _, p := range pats.Patterns {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := s.patternByID[p.ID]; dup {
			return nil, fmt.Errorf("pattern %q: duplicate id", p.ID)
		}
		if len(p.Keywords) == 0 {
			catchAll++
		}
		s.patterns = append(s.patterns, p)
		s.patternByID[p.ID] = &s.patterns[len(s.patterns)-1]
	}
	if catchAll != 1 {
		return nil, fmt.Errorf("corpus needs exactly one catch-all pattern, found %d", catchAll)
	}
	sort.SliceStable(s.patterns, func(i, j int) bool {
		return s.patterns[i].Priority < s.patterns[j].Priority
	})
	if len(s.patterns[len(s.patterns)-1].Keywords) != 0 {
		return nil, fmt.Errorf("catch-all pattern must have the highest priority value")
	}
	// Rebuild the id index after sorting moved the backing array.
	for i := range s.patterns {
		s.patternByID[s.patterns[i].ID] = &s.patterns[i]
	}
	for _, p := range s.patterns {
		for _, ref := range p.EvolvesTo {
			if _, ok := s.patternByID[ref]; !ok {
				return nil, fmt.Errorf("pattern %q: evolvesTo references unknown pattern %q", p.ID, ref)
			}
		}
		if p.EvolvesFrom != "" {
			if _, ok := s.patternByID[p.EvolvesFrom]; !ok {
				return nil, fmt.Errorf("pattern %q: evolvesFrom references unknown pattern %q", p.ID, p.EvolvesFrom)
			}
		}
	}

	return s, nil
}

// RelationshipsFor returns every relationship readable from t (declared with
// t as source, plus bidirectional ones declared the other way).
func (s *Store) RelationshipsFor(t datatypes.ComponentType) []Relationship {
	return s.bySource[t]
}

// ConflictsFor returns the conflict relationships involving t from either
// side.
func (s *Store) ConflictsFor(t datatypes.ComponentType) []Relationship {
	return s.conflicts[t]
}

// MandatoryDependenciesFor returns the requires relationships of mandatory
// strength whose source is t.
func (s *Store) MandatoryDependenciesFor(t datatypes.ComponentType) []Relationship {
	var out []Relationship
	for _, r := range s.bySource[t] {
		if r.Source == t && r.Type == RelationshipRequires && r.Strength == StrengthMandatory {
			out = append(out, r)
		}
	}
	return out
}

// RecommendedFor returns non-mandatory dependency relationships from t:
// recommends and enhances of any strength, plus requires below mandatory.
func (s *Store) RecommendedFor(t datatypes.ComponentType) []Relationship {
	var out []Relationship
	for _, r := range s.bySource[t] {
		if r.Source != t {
			continue
		}
		switch r.Type {
		case RelationshipRecommends, RelationshipEnhances:
			out = append(out, r)
		case RelationshipRequires:
			if r.Strength != StrengthMandatory {
				out = append(out, r)
			}
		}
	}
	return out
}

// FailuresFor returns the failure scenarios curated for component type t.
func (s *Store) FailuresFor(t datatypes.ComponentType) []FailureScenario {
	return s.failures[t]
}

// AntiPatterns returns the full anti-pattern list in corpus order.
func (s *Store) AntiPatterns() []AntiPattern {
	return s.antiPatterns
}

// Patterns returns the reference patterns in ascending priority order; the
// catch-all is always last.
func (s *Store) Patterns() []Pattern {
	return s.patterns
}

// PatternByID returns the pattern with the given id.
func (s *Store) PatternByID(id string) (*Pattern, bool) {
	p, ok := s.patternByID[id]
	return p, ok
}

// DefaultPattern returns the catch-all pattern.
func (s *Store) DefaultPattern() *Pattern {
	return &s.patterns[len(s.patterns)-1]
}

// Components returns the catalog of vocabulary types with their tier and
// display metadata, in tier order.
func (s *Store) Components() []ComponentInfo {
	types := datatypes.AllComponentTypes()
	out := make([]ComponentInfo, 0, len(types))
	for _, t := range types {
		out = append(out, ComponentInfo{
			Type:        t,
			Tier:        t.Tier(),
			DisplayName: t.DisplayName(),
			Security:    t.IsSecurity(),
		})
	}
	return out
}

// MatchAntiPatterns checks every edge in the view against every anti-pattern
// and returns the violations in edge order. Exempt edges (the target also
// receives from a guard type) are skipped.
func (s *Store) MatchAntiPatterns(view *SpecView) []Violation {
	if view == nil {
		return nil
	}
	var out []Violation
	for _, conn := range view.Spec.Connections {
		src, ok := view.Nodes[conn.Source]
		if !ok {
			continue
		}
		dst, ok := view.Nodes[conn.Target]
		if !ok {
			continue
		}
		for _, ap := range s.antiPatterns {
			if !matchEndpoint(src.Node.Type, ap.SourceTypes, ap.SourceTier) {
				continue
			}
			if !matchEndpoint(dst.Node.Type, ap.TargetTypes, ap.TargetTier) {
				continue
			}
			if exempted(dst, ap.ExemptTypes) {
				continue
			}
			out = append(out, Violation{
				PatternID: ap.ID,
				Severity:  ap.Severity,
				Message:   ap.Message.Render(),
				Source:    conn.Source,
				Target:    conn.Target,
				SourceTyp: src.Node.Type,
				TargetTyp: dst.Node.Type,
			})
		}
	}
	return out
}

func matchEndpoint(t datatypes.ComponentType, types []datatypes.ComponentType, tier datatypes.Tier) bool {
	if len(types) > 0 {
		for _, want := range types {
			if t == want {
				return true
			}
		}
		return false
	}
	return tier != "" && t.Tier() == tier
}

func exempted(target *NodeView, guards []datatypes.ComponentType) bool {
	if len(guards) == 0 {
		return false
	}
	for _, in := range target.IncomingTypes {
		for _, g := range guards {
			if in == g {
				return true
			}
		}
	}
	return false
}
