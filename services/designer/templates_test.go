// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package designer

import (
	"testing"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	store, err := knowledge.Load()
	if err != nil {
		t.Fatalf("load knowledge corpus: %v", err)
	}
	return NewBuilder(store)
}

// TestMatchTemplate tests keyword routing, including case-insensitivity and
// the catch-all fallback.
func TestMatchTemplate(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		prompt string
		wantID string
	}{
		{"VDI architecture", "vdi"},
		{"vdi architecture", "vdi"},
		{"원격 근무 환경을 설계해줘", "vdi"},
		{"3-tier web app with a WAF", "three-tier"},
		{"3티어 웹 서비스", "three-tier"},
		{"secure website please", "secure-web"},
		{"create a website", "basic-web"},
		{"홈페이지 만들어줘", "basic-web"},
		{"MSA 기반 플랫폼", "microservices"},
		{"company mail system", "mail"},
		{"completely unrelated text", "minimal-secure"},
		{"", "minimal-secure"},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got := b.MatchTemplate(tt.prompt)
			if got.ID != tt.wantID {
				t.Errorf("MatchTemplate(%q) = %s, want %s", tt.prompt, got.ID, tt.wantID)
			}
		})
	}
}

// TestMatchTemplate_Deterministic tests that identical input always resolves
// to the same pattern.
func TestMatchTemplate_Deterministic(t *testing.T) {
	b := newTestBuilder(t)
	for i := 0; i < 10; i++ {
		if got := b.MatchTemplate("VDI Architecture"); got.ID != "vdi" {
			t.Fatalf("call %d: got %s", i, got.ID)
		}
	}
}

// TestInstantiatePattern tests node generation and chain wiring for the
// three-tier reference.
func TestInstantiatePattern(t *testing.T) {
	b := newTestBuilder(t)
	pattern, ok := b.store.PatternByID("three-tier")
	if !ok {
		t.Fatal("three-tier pattern missing from corpus")
	}

	spec := InstantiatePattern(pattern)
	if err := spec.Validate(); err != nil {
		t.Fatalf("instantiated spec invalid: %v", err)
	}
	if len(spec.Nodes) != 5 {
		t.Fatalf("nodes = %d, want 5", len(spec.Nodes))
	}
	if len(spec.Connections) != 4 {
		t.Fatalf("connections = %d, want 4", len(spec.Connections))
	}

	chain := []string{"internet-1", "fw-1", "web-1", "app-1", "db-1"}
	for i := 0; i < len(chain)-1; i++ {
		if !spec.HasConnection(chain[i], chain[i+1]) {
			t.Errorf("missing chain edge %s -> %s", chain[i], chain[i+1])
		}
	}

	if len(spec.Zones) != 4 {
		t.Errorf("zones = %v, want one per tier", spec.Zones)
	}
	dmz := spec.Zones["dmz"]
	if len(dmz) != 2 || dmz[0] != "fw-1" || dmz[1] != "web-1" {
		t.Errorf("dmz zone = %v, want [fw-1 web-1]", dmz)
	}
}

// TestInstantiatePattern_VDIOrder tests that the chain respects conventional
// traffic order across all four tiers.
func TestInstantiatePattern_VDIOrder(t *testing.T) {
	b := newTestBuilder(t)
	pattern, ok := b.store.PatternByID("vdi")
	if !ok {
		t.Fatal("vdi pattern missing from corpus")
	}

	spec := InstantiatePattern(pattern)
	if err := spec.Validate(); err != nil {
		t.Fatalf("instantiated spec invalid: %v", err)
	}
	if !spec.HasConnection("user-1", "internet-1") {
		t.Error("user should front the chain")
	}
	if !spec.HasConnection("fw-1", "vpn-1") {
		t.Error("firewall should hand off to the vpn gateway")
	}
	if !spec.HasConnection("app-1", "auth-1") && !spec.HasConnection("auth-1", "app-1") {
		t.Error("auth and app servers should be adjacent in the chain")
	}
}

// TestInstantiatePattern_Nil tests the nil-pattern guard.
func TestInstantiatePattern_Nil(t *testing.T) {
	spec := InstantiatePattern(nil)
	if spec == nil || len(spec.Nodes) != 0 {
		t.Fatalf("InstantiatePattern(nil) = %+v, want empty spec", spec)
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("empty spec invalid: %v", err)
	}
}

// TestOrderByChain tests tier-then-member ordering with duplicates preserved.
func TestOrderByChain(t *testing.T) {
	in := []datatypes.ComponentType{
		datatypes.ComponentDBServer,
		datatypes.ComponentFirewall,
		datatypes.ComponentInternet,
		datatypes.ComponentWebServer,
		datatypes.ComponentWAF,
	}
	got := orderByChain(in)
	want := []datatypes.ComponentType{
		datatypes.ComponentInternet,
		datatypes.ComponentFirewall,
		datatypes.ComponentWAF,
		datatypes.ComponentWebServer,
		datatypes.ComponentDBServer,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if &in[0] == &got[0] {
		t.Error("orderByChain must not alias its input")
	}
}
