// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/llm"
)

// fakeClient records the last call and returns a canned response.
type fakeClient struct {
	response   string
	err        error
	lastPrompt string
	lastParams llm.GenerationParams
}

func (f *fakeClient) Generate(_ context.Context, prompt string, params llm.GenerationParams) (string, error) {
	f.lastPrompt = prompt
	f.lastParams = params
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// TestAnalyzer_Analyze tests the happy path through one model call.
func TestAnalyzer_Analyze(t *testing.T) {
	client := &fakeClient{
		response: `{"action": "add", "components": ["waf"], "confidence": 0.9}`,
	}
	a := NewAnalyzer(client)

	res := a.Analyze(context.Background(), Request{Prompt: "add a WAF"})
	if !res.OK() {
		t.Fatalf("Analyze() not OK: err=%q", res.Err)
	}
	if res.Intent.Action != datatypes.ActionAdd {
		t.Errorf("action = %s, want add", res.Intent.Action)
	}
	if res.Raw != client.response {
		t.Errorf("raw response not preserved")
	}
	if !strings.Contains(client.lastPrompt, "add a WAF") {
		t.Errorf("prompt %q does not carry the instruction", client.lastPrompt)
	}
	if !strings.Contains(client.lastPrompt, "(empty diagram)") {
		t.Errorf("prompt %q missing empty-diagram placeholder", client.lastPrompt)
	}
}

// TestAnalyzer_GuidanceAppended tests that knowledge guidance lands after the
// base instruction, never before it.
func TestAnalyzer_GuidanceAppended(t *testing.T) {
	client := &fakeClient{
		response: `{"action": "add", "components": ["waf"]}`,
	}
	a := NewAnalyzer(client)

	guidance := "## 현재 아키텍처 지식 (Current architecture knowledge)\n- waf conflicts with ids-ips"
	a.Analyze(context.Background(), Request{Prompt: "add a WAF", Guidance: guidance})

	system := client.lastParams.System
	if !strings.HasPrefix(system, systemInstruction) {
		t.Fatalf("system prompt does not start with the base instruction")
	}
	if !strings.HasSuffix(system, guidance) {
		t.Fatalf("system prompt does not end with the guidance")
	}
	if system != systemInstruction+"\n\n"+guidance {
		t.Errorf("guidance not separated by a blank line")
	}
}

// TestAnalyzer_NoGuidance tests the system prompt is untouched when there is
// nothing to append.
func TestAnalyzer_NoGuidance(t *testing.T) {
	client := &fakeClient{
		response: `{"action": "add", "components": ["waf"]}`,
	}
	a := NewAnalyzer(client)

	a.Analyze(context.Background(), Request{Prompt: "add a WAF"})
	if client.lastParams.System != systemInstruction {
		t.Errorf("system prompt modified without guidance")
	}
}

// TestAnalyzer_SpecSummaryInPrompt tests the current diagram reaches the model.
func TestAnalyzer_SpecSummaryInPrompt(t *testing.T) {
	client := &fakeClient{
		response: `{"action": "add", "components": ["waf"]}`,
	}
	a := NewAnalyzer(client)

	summary := "dmz: fw-1 (firewall), web-1 (web-server)"
	a.Analyze(context.Background(), Request{Prompt: "add a WAF", SpecSummary: summary})
	if !strings.Contains(client.lastPrompt, summary) {
		t.Errorf("prompt %q missing diagram summary", client.lastPrompt)
	}
}

// TestAnalyzer_ProviderError tests that a failed model call degrades to a
// fallback result instead of an error return.
func TestAnalyzer_ProviderError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	a := NewAnalyzer(client)

	res := a.Analyze(context.Background(), Request{Prompt: "add a WAF"})
	if res.OK() {
		t.Fatal("Analyze() OK despite provider error")
	}
	if res.Intent != nil {
		t.Errorf("intent = %+v, want nil", res.Intent)
	}
	if !strings.Contains(res.Err, "connection refused") {
		t.Errorf("err = %q, want provider error preserved", res.Err)
	}
}

// TestAnalyzer_NilClient tests the no-backend configuration.
func TestAnalyzer_NilClient(t *testing.T) {
	a := NewAnalyzer(nil)

	res := a.Analyze(context.Background(), Request{Prompt: "add a WAF"})
	if res.OK() {
		t.Fatal("Analyze() OK with no backend")
	}
	if res.Err == "" {
		t.Error("expected a fallback reason")
	}
}

// TestAnalyzer_GarbageResponse tests that unparseable model output keeps the
// raw text for diagnostics while signalling fallback.
func TestAnalyzer_GarbageResponse(t *testing.T) {
	client := &fakeClient{response: "I am sorry, I cannot help with that."}
	a := NewAnalyzer(client)

	res := a.Analyze(context.Background(), Request{Prompt: "add a WAF"})
	if res.OK() {
		t.Fatal("Analyze() OK despite garbage response")
	}
	if res.Raw != client.response {
		t.Errorf("raw = %q, want the model output preserved", res.Raw)
	}
}
