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
	"fmt"
	"os"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
	"github.com/spf13/cobra"
)

// =============================================================================
// KNOWLEDGE COMPONENTS COMMAND
// =============================================================================

func runKnowledgeComponents(cmd *cobra.Command, args []string) {
	store := mustLoadKnowledge(knowComponentsJSON)
	components := store.Components()

	if knowComponentsJSON {
		result := ComponentListResult{Components: components, Count: len(components)}
		if err := OutputJSON(result, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		os.Exit(CLIExitSuccess)
	}

	fmt.Printf("%-14s %-10s %-22s %s\n", "TYPE", "TIER", "NAME", "SECURITY")
	for _, c := range components {
		sec := ""
		if c.Security {
			sec = "yes"
		}
		fmt.Printf("%-14s %-10s %-22s %s\n", c.Type, c.Tier, c.DisplayName, sec)
	}
}

// =============================================================================
// KNOWLEDGE RELATIONSHIPS COMMAND
// =============================================================================

func runKnowledgeRelationships(cmd *cobra.Command, args []string) {
	raw := args[0]
	t, ok := datatypes.ParseComponentType(raw)
	if !ok {
		OutputError(knowRelationshipsJSON, "Unknown component type", fmt.Errorf("%q", raw))
		os.Exit(CLIExitError)
	}

	store := mustLoadKnowledge(knowRelationshipsJSON)
	rels := store.RelationshipsFor(t)

	if knowRelationshipsJSON {
		result := RelationshipListResult{Type: t, Relationships: rels, Count: len(rels)}
		if err := OutputJSON(result, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		os.Exit(CLIExitSuccess)
	}

	if len(rels) == 0 {
		fmt.Printf("No curated relationships for %s.\n", t)
		return
	}
	for _, r := range rels {
		fmt.Printf("%s %s %s (%s): %s\n",
			r.Source, r.Type, r.Target, r.Strength, r.Reason.Render())
	}
}

// =============================================================================
// KNOWLEDGE PATTERNS COMMAND
// =============================================================================

func runKnowledgePatterns(cmd *cobra.Command, args []string) {
	store := mustLoadKnowledge(knowPatternsJSON)
	patterns := store.Patterns()

	if knowPatternsJSON {
		result := PatternListResult{Patterns: patterns, Count: len(patterns)}
		if err := OutputJSON(result, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
		os.Exit(CLIExitSuccess)
	}

	for _, p := range patterns {
		fmt.Printf("%s (priority %d)\n", p.ID, p.Priority)
		fmt.Printf("  name: %s\n", p.Name.Render())
		if len(p.Keywords) > 0 {
			fmt.Printf("  keywords: %s\n", strings.Join(p.Keywords, ", "))
		} else {
			fmt.Println("  keywords: (catch-all)")
		}
		fmt.Printf("  required: %s\n", joinTypes(p.Required))
		if len(p.Optional) > 0 {
			fmt.Printf("  optional: %s\n", joinTypes(p.Optional))
		}
		fmt.Println()
	}
}

func joinTypes(types []datatypes.ComponentType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// KNOWLEDGE LINT COMMAND
// =============================================================================

// runKnowledgeLint validates a corpus directory with the same checks the
// embedded corpus goes through at startup. A corpus that fails here would
// make every binary built from it refuse to start.
func runKnowledgeLint(cmd *cobra.Command, args []string) {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", dir)
		}
		OutputError(knowLintJSON, "Cannot read the corpus directory", err)
		os.Exit(CLIExitError)
	}

	store, err := knowledge.LoadDir(dir)
	if err != nil {
		if knowLintJSON {
			OutputJSON(LintResult{Valid: false, Error: err.Error()}, false)
		} else {
			fmt.Printf("Corpus validation failed: %v\n", err)
		}
		os.Exit(CLIExitFindings)
	}

	components := store.Components()
	patterns := store.Patterns()
	antiPatterns := store.AntiPatterns()
	if knowLintJSON {
		result := LintResult{
			Valid:        true,
			Components:   len(components),
			Patterns:     len(patterns),
			AntiPatterns: len(antiPatterns),
		}
		if err := OutputJSON(result, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(CLIExitError)
		}
	} else {
		fmt.Printf("Corpus OK: %d components, %d patterns, %d anti-patterns\n",
			len(components), len(patterns), len(antiPatterns))
	}
	os.Exit(CLIExitSuccess)
}
