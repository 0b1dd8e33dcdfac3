// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the design/apply command helpers and text rendering

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
)

// captureStdout runs fn with os.Stdout piped into a buffer and returns
// what it printed. Command output goes straight to stdout, so the
// rendering tests need the pipe.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func sampleSpec() *datatypes.InfraSpec {
	return &datatypes.InfraSpec{
		Nodes: []datatypes.InfraNode{
			{ID: "fw-1", Type: datatypes.ComponentFirewall, Label: "Firewall 1"},
			{ID: "web-1", Type: datatypes.ComponentWebServer, Label: "Web Server 1"},
		},
		Connections: []datatypes.InfraConnection{
			{Source: "fw-1", Target: "web-1"},
		},
	}
}

// =============================================================================
// Spec File IO
// =============================================================================

func TestSpecFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := writeSpecFile(path, sampleSpec()); err != nil {
		t.Fatalf("writeSpecFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("written spec file should end with a newline")
	}

	loaded, err := loadSpecFile(path)
	if err != nil {
		t.Fatalf("loadSpecFile: %v", err)
	}
	if len(loaded.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(loaded.Nodes))
	}
	if len(loaded.Connections) != 1 {
		t.Errorf("expected 1 connection, got %d", len(loaded.Connections))
	}
	if !loaded.HasConnection("fw-1", "web-1") {
		t.Error("connection fw-1 -> web-1 lost in the round trip")
	}
}

func TestLoadSpecFile_MissingFile(t *testing.T) {
	_, err := loadSpecFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "read spec") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadSpecFile_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := loadSpecFile(path)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parse spec") {
		t.Errorf("unexpected error: %v", err)
	}
}

// A file that parses but violates the structural invariants must be
// rejected before any command works on it.
func TestLoadSpecFile_DanglingConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dangling.json")
	raw := `{
  "nodes": [{"id": "web-1", "type": "web-server"}],
  "connections": [{"source": "web-1", "target": "db-9"}]
}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := loadSpecFile(path)
	if err == nil {
		t.Fatal("expected an error for a dangling connection")
	}
	if !strings.Contains(err.Error(), "invalid spec") {
		t.Errorf("unexpected error: %v", err)
	}
}

// =============================================================================
// Text Rendering
// =============================================================================

func TestRenderBuildResult_Failure(t *testing.T) {
	output := captureStdout(t, func() {
		renderBuildResult(datatypes.Failure("no recognizable component or action in the prompt"), nil)
	})
	if !strings.Contains(output, "No diagram produced: no recognizable component") {
		t.Errorf("unexpected failure output: %q", output)
	}
	if strings.Contains(output, "Diagram:") {
		t.Error("failure output must not render a diagram header")
	}
}

func TestRenderBuildResult_Success(t *testing.T) {
	result := datatypes.BuildResult{
		Success:     true,
		Spec:        sampleSpec(),
		CommandType: datatypes.CommandCreate,
		Warnings: []datatypes.Warning{
			{Type: datatypes.WarningConflict, Severity: datatypes.SeverityHigh,
				Message: "CDN과 캐시 서버의 역할이 겹칩니다 (CDN overlaps with the cache role)"},
		},
		Suggestions: []datatypes.Suggestion{
			{Type: datatypes.SuggestionMandatory, Component: datatypes.ComponentWAF,
				Reason: "웹 서버 보호 (web servers need a WAF in front)"},
		},
		Explanation: "3계층 웹 아키텍처를 구성했습니다.",
	}

	output := captureStdout(t, func() {
		renderBuildResult(result, nil)
	})

	if !strings.Contains(output, "Diagram: 2 nodes, 1 connections") {
		t.Errorf("missing the diagram header: %q", output)
	}
	// Security components carry the * marker, plain ones do not.
	if !strings.Contains(output, "* fw-1") {
		t.Error("firewall row should carry the security marker")
	}
	if strings.Contains(output, "* web-1") {
		t.Error("web server row must not carry the security marker")
	}
	if !strings.Contains(output, "fw-1 -> web-1") {
		t.Error("missing the connection row")
	}
	if !strings.Contains(output, "[high]") || !strings.Contains(output, "overlaps") {
		t.Error("missing the warning row")
	}
	if !strings.Contains(output, "[mandatory] add waf:") {
		t.Error("missing the suggestion row")
	}
	if !strings.Contains(output, "3계층 웹 아키텍처를 구성했습니다.") {
		t.Error("missing the explanation")
	}
}

// The apply command appends the risk report after the diagram.
func TestRenderBuildResult_WithRisk(t *testing.T) {
	cr := &risk.ChangeRisk{
		Level: datatypes.SeverityHigh,
		Factors: []risk.Factor{
			{Severity: datatypes.SeverityHigh, Category: risk.CategorySecurityRemoved,
				Message: "removed security component: Firewall", Component: "fw-1"},
		},
	}
	result := datatypes.BuildResult{Success: true, Spec: sampleSpec()}

	output := captureStdout(t, func() {
		renderBuildResult(result, cr)
	})

	if !strings.Contains(output, "Diagram: 2 nodes") {
		t.Error("missing the diagram header")
	}
	if !strings.Contains(output, "Change Risk: high [!!]") {
		t.Errorf("missing the risk line: %q", output)
	}
	if !strings.Contains(output, "(fw-1)") {
		t.Error("factor row should name the component")
	}
}
