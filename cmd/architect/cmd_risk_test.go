package main

import (
	"strings"
	"testing"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
)

func TestRiskGateThreshold(t *testing.T) {
	// Flag variables are package globals; restore them afterwards.
	defer func() {
		riskStrict = false
		riskPermissive = false
		riskThreshold = "high"
	}()

	tests := []struct {
		name       string
		strict     bool
		permissive bool
		threshold  string
		want       datatypes.Severity
	}{
		{"default", false, false, "high", datatypes.SeverityHigh},
		{"explicit medium", false, false, "medium", datatypes.SeverityMedium},
		{"strict wins over threshold", true, false, "critical", datatypes.SeverityLow},
		{"permissive", false, true, "low", datatypes.SeverityCritical},
		{"typo fails closed to high", false, false, "sevre", datatypes.SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			riskStrict = tt.strict
			riskPermissive = tt.permissive
			riskThreshold = tt.threshold
			if got := riskGateThreshold(); got != tt.want {
				t.Errorf("riskGateThreshold() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Capture stdout to verify the text report shape: compact by default,
// diff counts only under --explain.
func TestRenderChangeRisk(t *testing.T) {
	result := risk.ChangeRisk{
		Level: datatypes.SeverityCritical,
		Factors: []risk.Factor{
			{Severity: datatypes.SeverityCritical, Category: risk.CategorySecurityRemoved,
				Message: "removed security component: Firewall", Component: "fw-1"},
			{Severity: datatypes.SeverityLow, Category: risk.CategorySecurityAdded,
				Message: "added security component: WAF"},
		},
		Summary: risk.Summary{RemovedNodes: 1, AddedNodes: 1, AddedConnections: 2},
	}

	compact := captureStdout(t, func() {
		renderChangeRisk(result, false)
	})
	if !strings.Contains(compact, "Change Risk: critical [!!!]") {
		t.Errorf("missing the level line: %q", compact)
	}
	if !strings.Contains(compact, "[security-removed] removed security component: Firewall (fw-1)") {
		t.Errorf("missing the removal factor: %q", compact)
	}
	// The second factor names no component, so no trailing parens.
	if !strings.Contains(compact, "added security component: WAF\n") {
		t.Errorf("missing the addition factor: %q", compact)
	}
	if strings.Contains(compact, "Change Summary:") {
		t.Error("diff counts should only show under explain")
	}

	explained := captureStdout(t, func() {
		renderChangeRisk(result, true)
	})
	if !strings.Contains(explained, "Change Summary:") {
		t.Error("explain mode should show the diff counts")
	}
	if !strings.Contains(explained, "Nodes removed: 1") {
		t.Errorf("missing the removal count: %q", explained)
	}
	if !strings.Contains(explained, "Connections added: 2") {
		t.Errorf("missing the connection count: %q", explained)
	}
}

func TestRiskIndicator(t *testing.T) {
	tests := []struct {
		level datatypes.Severity
		want  string
	}{
		{datatypes.SeverityCritical, "[!!!]"},
		{datatypes.SeverityHigh, "[!!]"},
		{datatypes.SeverityMedium, "[!]"},
		{datatypes.SeverityLow, "[ok]"},
	}
	for _, tt := range tests {
		if got := riskIndicator(tt.level); got != tt.want {
			t.Errorf("riskIndicator(%s) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
