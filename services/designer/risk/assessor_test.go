// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package risk

import (
	"reflect"
	"testing"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

func newTestAssessor(t *testing.T) *Assessor {
	t.Helper()
	store, err := knowledge.Load()
	if err != nil {
		t.Fatalf("load knowledge corpus: %v", err)
	}
	return NewAssessor(store)
}

// chainSpec builds fw-1 -> web-1 -> db-1.
func chainSpec() *datatypes.InfraSpec {
	return &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{
			{ID: "fw-1", Type: datatypes.ComponentFirewall, Label: "Firewall 1"},
			{ID: "web-1", Type: datatypes.ComponentWebServer, Label: "Web Server 1"},
			{ID: "db-1", Type: datatypes.ComponentDBServer, Label: "DB Server 1"},
		},
		Connections: []datatypes.InfraConnection{
			{Source: "fw-1", Target: "web-1"},
			{Source: "web-1", Target: "db-1"},
		},
	}
}

func hasFactor(factors []Factor, category string) bool {
	for _, f := range factors {
		if f.Category == category {
			return true
		}
	}
	return false
}

// TestAssess_NoChange tests that identical specs assess to low with zero
// counts and no factors.
func TestAssess_NoChange(t *testing.T) {
	a := newTestAssessor(t)

	got := a.Assess(chainSpec(), chainSpec())
	if got.Level != datatypes.SeverityLow {
		t.Errorf("level = %s, want low", got.Level)
	}
	if len(got.Factors) != 0 {
		t.Errorf("factors = %+v, want none", got.Factors)
	}
	if got.Summary != (Summary{}) {
		t.Errorf("summary = %+v, want all zero", got.Summary)
	}
}

// TestAssess_RemoveFirewall tests the remove-the-firewall scenario: one
// removed node and at least one high-weight factor.
func TestAssess_RemoveFirewall(t *testing.T) {
	a := newTestAssessor(t)

	before := chainSpec()
	after := chainSpec()
	after.RemoveNode("fw-1")

	got := a.Assess(before, after)
	if got.Summary.RemovedNodes != 1 {
		t.Errorf("removedNodes = %d, want 1", got.Summary.RemovedNodes)
	}
	if len(got.Factors) == 0 {
		t.Fatal("expected at least one risk factor")
	}
	if !hasFactor(got.Factors, CategorySecurityRemoved) {
		t.Errorf("missing security-removed factor: %+v", got.Factors)
	}
	// The corpus marks firewall failure critical, so removal is critical.
	if got.Level != datatypes.SeverityCritical {
		t.Errorf("level = %s, want critical", got.Level)
	}
}

// TestAssess_SecurityRemovalNeverLower tests that removing any
// security-tagged type scores at least as high as removing any non-security
// type, all else equal.
func TestAssess_SecurityRemovalNeverLower(t *testing.T) {
	a := newTestAssessor(t)

	minSecurity := datatypes.SeverityCritical
	maxPlain := datatypes.SeverityLow
	for _, typ := range datatypes.AllComponentTypes() {
		id := typ.IDPrefix() + "-1"
		before := &datatypes.InfraSpec{
			Nodes:       []datatypes.InfraNode{{ID: id, Type: typ, Label: string(typ)}},
			Connections: []datatypes.InfraConnection{},
		}
		got := a.Assess(before, &datatypes.InfraSpec{})
		if len(got.Factors) != 1 {
			t.Fatalf("%s: factors = %+v, want exactly one removal factor", typ, got.Factors)
		}
		sev := got.Factors[0].Severity
		if typ.IsSecurity() {
			if sev.Rank() < minSecurity.Rank() {
				minSecurity = sev
			}
		} else {
			if sev.Rank() > maxPlain.Rank() {
				maxPlain = sev
			}
		}
	}
	if minSecurity.Rank() <= maxPlain.Rank() {
		t.Errorf("weakest security removal (%s) does not outrank strongest plain removal (%s)",
			minSecurity, maxPlain)
	}
}

// TestAssess_AddedSecurityNote tests the risk-lowering note for added
// security components.
func TestAssess_AddedSecurityNote(t *testing.T) {
	a := newTestAssessor(t)

	before := chainSpec()
	after := chainSpec()
	after.Nodes = append(after.Nodes, datatypes.InfraNode{
		ID: "waf-1", Type: datatypes.ComponentWAF, Label: "WAF 1",
	})

	got := a.Assess(before, after)
	if got.Summary.AddedNodes != 1 {
		t.Errorf("addedNodes = %d, want 1", got.Summary.AddedNodes)
	}
	if !hasFactor(got.Factors, CategorySecurityAdded) {
		t.Errorf("missing security-added note: %+v", got.Factors)
	}
	if got.Level != datatypes.SeverityLow {
		t.Errorf("level = %s, want low (notes do not raise risk)", got.Level)
	}
}

// TestAssess_NewAntiPattern tests that a violation introduced by the change
// contributes a factor at the anti-pattern's severity.
func TestAssess_NewAntiPattern(t *testing.T) {
	a := newTestAssessor(t)

	before := &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{
			{ID: "internet-1", Type: datatypes.ComponentInternet, Label: "Internet 1"},
			{ID: "db-1", Type: datatypes.ComponentDBServer, Label: "DB Server 1"},
		},
		Connections: []datatypes.InfraConnection{},
	}
	after := before.Clone()
	after.AddConnection("internet-1", "db-1")

	got := a.Assess(before, after)
	if got.Summary.AddedConnections != 1 {
		t.Errorf("addedConnections = %d, want 1", got.Summary.AddedConnections)
	}
	if !hasFactor(got.Factors, CategoryAntiPattern) {
		t.Fatalf("missing anti-pattern factor: %+v", got.Factors)
	}
	if got.Level != datatypes.SeverityCritical {
		t.Errorf("level = %s, want critical (internet to data tier)", got.Level)
	}
}

// TestAssess_PreexistingViolationNotRecounted tests that a violation present
// on both sides of the change contributes nothing.
func TestAssess_PreexistingViolationNotRecounted(t *testing.T) {
	a := newTestAssessor(t)

	before := &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{
			{ID: "internet-1", Type: datatypes.ComponentInternet, Label: "Internet 1"},
			{ID: "db-1", Type: datatypes.ComponentDBServer, Label: "DB Server 1"},
		},
		Connections: []datatypes.InfraConnection{{Source: "internet-1", Target: "db-1"}},
	}
	after := before.Clone()
	after.Nodes = append(after.Nodes, datatypes.InfraNode{
		ID: "cache-1", Type: datatypes.ComponentCache, Label: "Cache 1",
	})

	got := a.Assess(before, after)
	if hasFactor(got.Factors, CategoryAntiPattern) {
		t.Errorf("pre-existing violation recounted: %+v", got.Factors)
	}
	if got.Level != datatypes.SeverityLow {
		t.Errorf("level = %s, want low", got.Level)
	}
}

// TestAssess_Retype tests that swapping a security component's type on a
// retained ID is flagged high.
func TestAssess_Retype(t *testing.T) {
	a := newTestAssessor(t)

	before := &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{{ID: "fw-1", Type: datatypes.ComponentFirewall, Label: "Firewall 1"}},
	}
	after := &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{{ID: "fw-1", Type: datatypes.ComponentCache, Label: "Firewall 1"}},
	}

	got := a.Assess(before, after)
	if got.Summary.ModifiedNodes != 1 {
		t.Errorf("modifiedNodes = %d, want 1", got.Summary.ModifiedNodes)
	}
	if !hasFactor(got.Factors, CategoryNodeRetyped) {
		t.Fatalf("missing node-retyped factor: %+v", got.Factors)
	}
	if got.Level != datatypes.SeverityHigh {
		t.Errorf("level = %s, want high", got.Level)
	}
}

// TestAssess_SummaryCounts tests the literal diff counts on a mixed change.
func TestAssess_SummaryCounts(t *testing.T) {
	a := newTestAssessor(t)

	before := chainSpec()
	after := &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{
			{ID: "web-1", Type: datatypes.ComponentWebServer, Label: "Frontend"},
			{ID: "db-1", Type: datatypes.ComponentDBServer, Label: "DB Server 1"},
			{ID: "cache-1", Type: datatypes.ComponentCache, Label: "Cache 1"},
			{ID: "mon-1", Type: datatypes.ComponentMonitoring, Label: "Monitoring 1"},
		},
		Connections: []datatypes.InfraConnection{
			{Source: "web-1", Target: "db-1"},
			{Source: "web-1", Target: "cache-1"},
		},
	}

	got := a.Assess(before, after)
	want := Summary{
		AddedNodes:         2,
		RemovedNodes:       1,
		ModifiedNodes:      1,
		AddedConnections:   1,
		RemovedConnections: 1,
	}
	if got.Summary != want {
		t.Errorf("summary = %+v, want %+v", got.Summary, want)
	}
}

// TestAssess_NilSpecs tests that nil specs read as empty.
func TestAssess_NilSpecs(t *testing.T) {
	a := newTestAssessor(t)

	got := a.Assess(nil, nil)
	if got.Level != datatypes.SeverityLow || len(got.Factors) != 0 {
		t.Errorf("Assess(nil, nil) = %+v, want empty low", got)
	}

	got = a.Assess(nil, chainSpec())
	if got.Summary.AddedNodes != 3 || got.Summary.AddedConnections != 2 {
		t.Errorf("summary = %+v, want 3 added nodes, 2 added connections", got.Summary)
	}
}

// TestAssess_Deterministic tests that the same input pair always produces
// the same ordered output.
func TestAssess_Deterministic(t *testing.T) {
	a := newTestAssessor(t)

	before := chainSpec()
	after := &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{
			{ID: "web-1", Type: datatypes.ComponentWebServer, Label: "Web Server 1"},
			{ID: "internet-1", Type: datatypes.ComponentInternet, Label: "Internet 1"},
		},
		Connections: []datatypes.InfraConnection{{Source: "internet-1", Target: "web-1"}},
	}

	first := a.Assess(before, after)
	second := a.Assess(before, after)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("assessments differ:\n%+v\n%+v", first, second)
	}
	for i := 1; i < len(first.Factors); i++ {
		if first.Factors[i-1].Severity.Rank() < first.Factors[i].Severity.Rank() {
			t.Errorf("factors not sorted by severity: %+v", first.Factors)
		}
	}
}

// TestParseLevel tests threshold parsing including the fail-closed default.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want datatypes.Severity
	}{
		{"low", datatypes.SeverityLow},
		{"MEDIUM", datatypes.SeverityMedium},
		{"High", datatypes.SeverityHigh},
		{"critical", datatypes.SeverityCritical},
		{"bogus", datatypes.SeverityHigh},
		{"", datatypes.SeverityHigh},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
