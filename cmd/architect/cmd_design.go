// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AleutianAI/ArchitectLocal/cmd/architect/config"
	"github.com/AleutianAI/ArchitectLocal/services/designer"
	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
	"github.com/AleutianAI/ArchitectLocal/services/intent"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
	"github.com/AleutianAI/ArchitectLocal/services/llm"
	"github.com/spf13/cobra"
)

// =============================================================================
// DESIGN COMMAND
// =============================================================================

func runDesignCommand(cmd *cobra.Command, args []string) {
	prompt := strings.Join(args, " ")
	store := mustLoadKnowledge(designJSON)
	builder := designer.NewBuilder(store)
	analyzer := buildAnalyzer(designNoModel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(designTimeout)*time.Second)
	defer cancel()
	parsed := resolveCLIIntent(ctx, analyzer, intent.Request{Prompt: prompt})

	result := builder.Create(prompt, designer.CreateOptions{
		UseTemplates:          config.Global.Designer.UseTemplates && !designNoTemplates,
		UseComponentDetection: config.Global.Designer.UseDetection,
		Intent:                parsed,
	})
	finishDesign(result, nil, designJSON, designOut)
}

// =============================================================================
// APPLY COMMAND
// =============================================================================

// runApplyCommand edits a diagram file with one change prompt.
//
// The detected action routes the edit exactly as the gateway does: remove
// and modify prompts take the builder's modify path, everything else adds.
// Routing must happen here, not inside Add, so a removal prompt never
// appends the component it only mentioned.
func runApplyCommand(cmd *cobra.Command, args []string) {
	prompt := strings.Join(args, " ")
	current, err := loadSpecFile(applySpecPath)
	if err != nil {
		OutputError(applyJSON, "Failed to load the diagram", err)
		os.Exit(CLIExitError)
	}
	store := mustLoadKnowledge(applyJSON)
	builder := designer.NewBuilder(store)
	analyzer := buildAnalyzer(applyNoModel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(applyTimeout)*time.Second)
	defer cancel()
	parsed := resolveCLIIntent(ctx, analyzer, intent.Request{
		Prompt:      prompt,
		SpecSummary: knowledge.BuildContext(current).Summary(),
	})
	applied := parsed
	if applied == nil {
		applied = designer.DetectIntent(prompt, current)
	}

	var result datatypes.BuildResult
	switch {
	case applied == nil:
		result = datatypes.Failure("no recognizable component or action in the prompt")
	case applied.Action == datatypes.ActionRemove || applied.Action == datatypes.ActionModify:
		result = builder.Modify(prompt, current, applied)
	default:
		result = builder.Add(prompt, current, applied)
	}

	var cr *risk.ChangeRisk
	if result.Success && !applyNoRisk {
		assessed := risk.NewAssessor(store).Assess(current, result.Spec)
		cr = &assessed
	}
	finishDesign(result, cr, applyJSON, applyOut)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// mustLoadKnowledge loads the embedded corpus or exits: nothing in the CLI
// can run without it.
func mustLoadKnowledge(jsonMode bool) *knowledge.Store {
	store, err := knowledge.Load()
	if err != nil {
		OutputError(jsonMode, "Failed to load the knowledge corpus", err)
		os.Exit(CLIExitError)
	}
	return store
}

// buildAnalyzer wires the configured model backend. A missing or broken
// backend degrades to the keyword rules; the CLI never requires a network
// to design.
func buildAnalyzer(noModel bool) *intent.Analyzer {
	if noModel {
		return intent.NewAnalyzer(nil)
	}
	backend := config.Global.ModelBackend.Type
	if backend == "" {
		return intent.NewAnalyzer(nil)
	}
	// The Ollama constructor reads its base URL from the environment;
	// surface the config value there when the caller hasn't set one.
	if config.Global.ModelBackend.BaseURL != "" && os.Getenv("OLLAMA_BASE_URL") == "" {
		os.Setenv("OLLAMA_BASE_URL", config.Global.ModelBackend.BaseURL)
	}
	client, err := llm.NewFromEnv(backend)
	if err != nil {
		cliLog.Warn("model backend unavailable, using keyword rules",
			"backend", backend, "error", err)
		return intent.NewAnalyzer(nil)
	}
	return intent.NewAnalyzer(client)
}

// resolveCLIIntent asks the model for an intent when one is configured.
// Any failure returns nil and the deterministic rules take over.
func resolveCLIIntent(ctx context.Context, analyzer *intent.Analyzer, req intent.Request) *datatypes.IntentAnalysis {
	if !analyzer.Enabled() {
		return nil
	}
	res := analyzer.Analyze(ctx, req)
	if !res.OK() {
		cliLog.Warn("model intent analysis failed, falling back to keyword rules",
			"error", res.Err)
		return nil
	}
	return res.Intent
}

// loadSpecFile reads and validates a diagram JSON file.
func loadSpecFile(path string) (*datatypes.InfraSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	var spec datatypes.InfraSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}
	return &spec, nil
}

// writeSpecFile writes a diagram as indented JSON.
func writeSpecFile(path string, spec *datatypes.InfraSpec) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

// finishDesign writes the output file, renders the result, and exits.
func finishDesign(result datatypes.BuildResult, cr *risk.ChangeRisk, jsonMode bool, outPath string) {
	if outPath != "" && result.Success {
		if err := writeSpecFile(outPath, result.Spec); err != nil {
			OutputError(jsonMode, "Failed to write the diagram", err)
			os.Exit(CLIExitError)
		}
	}

	if jsonMode {
		if err := OutputJSON(DesignOutput{Result: result, Risk: cr}, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
	} else {
		renderBuildResult(result, cr)
	}

	if !result.Success {
		os.Exit(CLIExitFindings)
	}
	os.Exit(CLIExitSuccess)
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func renderBuildResult(result datatypes.BuildResult, cr *risk.ChangeRisk) {
	if !result.Success {
		fmt.Printf("No diagram produced: %s\n", result.Error)
		return
	}

	spec := result.Spec
	fmt.Printf("Diagram: %d nodes, %d connections\n", len(spec.Nodes), len(spec.Connections))
	fmt.Println()

	fmt.Println("Nodes:")
	for _, n := range spec.Nodes {
		marker := " "
		if n.Type.IsSecurity() {
			marker = "*"
		}
		fmt.Printf("  %s %-12s %-14s %s\n", marker, n.ID, n.Type, n.Label)
	}
	fmt.Println()

	if len(spec.Connections) > 0 {
		fmt.Println("Connections:")
		for _, c := range spec.Connections {
			fmt.Printf("  %s -> %s\n", c.Source, c.Target)
		}
		fmt.Println()
	}

	if len(result.Warnings) > 0 {
		fmt.Println("Warnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  [%s] %s\n", w.Severity, w.Message)
		}
		fmt.Println()
	}

	if len(result.Suggestions) > 0 {
		fmt.Println("Suggestions:")
		for _, s := range result.Suggestions {
			fmt.Printf("  [%s] add %s: %s\n", s.Type, s.Component, s.Reason)
		}
		fmt.Println()
	}

	if result.Explanation != "" {
		fmt.Println(result.Explanation)
		fmt.Println()
	}

	if cr != nil {
		renderChangeRisk(*cr, false)
	}
}
