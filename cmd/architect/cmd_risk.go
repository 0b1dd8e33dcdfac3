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
	"encoding/json"
	"fmt"
	"os"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
	"github.com/AleutianAI/ArchitectLocal/services/designer/risk"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	riskThreshold  string
	riskStrict     bool
	riskPermissive bool
	riskJSON       bool
	riskQuiet      bool
	riskExplain    bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Assess the risk of diagram changes",
}

var riskAssessCmd = &cobra.Command{
	Use:   "assess [before.json] [after.json]",
	Short: "Grade the change between two diagram files",
	Long: `Diff two diagram files and grade the change against the knowledge graph.

This is useful for CI gating: store the reviewed diagram next to the
infrastructure code and fail the pipeline when an edit removes a guard.

Signals collected:
  - Removals: any removed component; a removed security component never
    grades below high, and grades critical when the corpus marks its
    failure impact critical
  - Additions: new security components (informational, low)
  - Anti-patterns: structural violations present after but not before
  - Retypes: a node whose id survived but whose type changed

Examples:
  architect risk assess before.json after.json
  architect risk assess before.json after.json --threshold medium
  architect risk assess before.json after.json --strict
  architect risk assess before.json after.json --json   # for automation
  architect risk assess before.json after.json --quiet  # exit code only

Exit Codes:
  0 = Risk at or below threshold (safe to proceed)
  1 = Risk above threshold (requires review)
  2 = Error (unreadable spec, assessment failure)`,
	Args: cobra.ExactArgs(2),
	Run:  runRiskAssess,
}

func init() {
	riskAssessCmd.Flags().StringVar(&riskThreshold, "threshold", "high",
		"Exit 0 if at/below: low, medium, high, critical")
	riskAssessCmd.Flags().BoolVar(&riskStrict, "strict", false,
		"Alias for --threshold low")
	riskAssessCmd.Flags().BoolVar(&riskPermissive, "permissive", false,
		"Alias for --threshold critical")
	riskAssessCmd.Flags().BoolVar(&riskJSON, "json", false,
		"Output as JSON")
	riskAssessCmd.Flags().BoolVar(&riskQuiet, "quiet", false,
		"Only exit code, no output")
	riskAssessCmd.Flags().BoolVar(&riskExplain, "explain", false,
		"Show the full diff summary")

	riskCmd.AddCommand(riskAssessCmd)
	rootCmd.AddCommand(riskCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runRiskAssess(cmd *cobra.Command, args []string) {
	before, err := loadSpecFile(args[0])
	if err != nil {
		outputRiskError("Failed to load the before spec", err)
		os.Exit(risk.ExitError)
	}
	after, err := loadSpecFile(args[1])
	if err != nil {
		outputRiskError("Failed to load the after spec", err)
		os.Exit(risk.ExitError)
	}

	store := mustLoadKnowledge(riskJSON)
	result := risk.NewAssessor(store).Assess(before, after)
	threshold := riskGateThreshold()

	if !riskQuiet {
		if riskJSON {
			outputRiskJSON(result)
		} else {
			renderChangeRisk(result, riskExplain)
		}
	}

	if result.Level.Exceeds(threshold) {
		os.Exit(risk.ExitRiskFound)
	}
	os.Exit(risk.ExitSuccess)
}

// riskGateThreshold resolves --strict and --permissive over --threshold.
func riskGateThreshold() datatypes.Severity {
	if riskStrict {
		return datatypes.SeverityLow
	}
	if riskPermissive {
		return datatypes.SeverityCritical
	}
	return risk.ParseLevel(riskThreshold)
}

// =============================================================================
// OUTPUT FUNCTIONS
// =============================================================================

func outputRiskError(msg string, err error) {
	if riskJSON {
		result := map[string]interface{}{
			"success": false,
			"error":   fmt.Sprintf("%s: %v", msg, err),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	}
}

func outputRiskJSON(result risk.ChangeRisk) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
		os.Exit(risk.ExitError)
	}
}

// renderChangeRisk prints an assessment in text form. The apply command
// reuses it for the post-edit report.
func renderChangeRisk(result risk.ChangeRisk, explain bool) {
	fmt.Printf("Change Risk: %s %s\n", result.Level, riskIndicator(result.Level))
	fmt.Println()

	if len(result.Factors) > 0 {
		fmt.Println("Contributing Factors:")
		for _, f := range result.Factors {
			icon := factorIcon(f.Severity)
			if f.Component != "" {
				fmt.Printf("  %s [%s] %s (%s)\n", icon, f.Category, f.Message, f.Component)
			} else {
				fmt.Printf("  %s [%s] %s\n", icon, f.Category, f.Message)
			}
		}
		fmt.Println()
	}

	if explain {
		s := result.Summary
		fmt.Println("Change Summary:")
		fmt.Printf("  - Nodes added: %d\n", s.AddedNodes)
		fmt.Printf("  - Nodes removed: %d\n", s.RemovedNodes)
		fmt.Printf("  - Nodes modified: %d\n", s.ModifiedNodes)
		fmt.Printf("  - Connections added: %d\n", s.AddedConnections)
		fmt.Printf("  - Connections removed: %d\n", s.RemovedConnections)
		fmt.Println()
	}
}

func riskIndicator(level datatypes.Severity) string {
	switch level {
	case datatypes.SeverityCritical:
		return "[!!!]"
	case datatypes.SeverityHigh:
		return "[!!]"
	case datatypes.SeverityMedium:
		return "[!]"
	default:
		return "[ok]"
	}
}

func factorIcon(severity datatypes.Severity) string {
	switch severity {
	case datatypes.SeverityCritical:
		return "!!!"
	case datatypes.SeverityHigh:
		return " !!"
	case datatypes.SeverityMedium:
		return " ! "
	default:
		return " - "
	}
}
