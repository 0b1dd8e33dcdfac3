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

	"github.com/AleutianAI/ArchitectLocal/cmd/architect/config"
	"github.com/AleutianAI/ArchitectLocal/pkg/logging"
	"github.com/spf13/cobra"
)

// cliLog is the shared CLI logger, configured in the root PersistentPreRun
// from ~/.architect/architect.yaml. Diagnostics go to stderr; stdout is
// reserved for command output.
var cliLog *logging.Logger

// --- Global Command Variables ---
var (
	verbose bool

	designJSON        bool
	designOut         string
	designNoModel     bool
	designNoTemplates bool
	designTimeout     int

	applySpecPath string
	applyJSON     bool
	applyOut      string
	applyNoModel  bool
	applyNoRisk   bool
	applyTimeout  int

	knowComponentsJSON    bool
	knowRelationshipsJSON bool
	knowPatternsJSON      bool
	knowLintJSON          bool

	rootCmd = &cobra.Command{
		Use:   "architect",
		Short: "A cli to turn natural-language descriptions into infrastructure diagrams",
		Long: `Architect compiles free-text architecture descriptions (Korean or
English) into typed infrastructure diagrams and reviews them against a
curated knowledge graph.

Every command works fully offline: with no model backend configured,
prompts go through the deterministic keyword rules and template matcher.
Configure a backend in ~/.architect/architect.yaml to put a model in
front of the rules.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading the config: %v\n", err)
				os.Exit(CLIExitError)
			}
			level := logging.ParseLevel(config.Global.Logs.Level)
			if verbose {
				level = logging.LevelDebug
			}
			cliLog = logging.New(logging.Config{
				Level:   level,
				LogDir:  config.Global.Logs.Dir,
				Service: "architect",
			})
		},
	}

	// --- Design ---
	designCmd = &cobra.Command{
		Use:   "design [prompt...]",
		Short: "Create a new diagram from a natural-language prompt",
		Long: `Design builds a fresh infrastructure diagram from a prompt.

The prompt is matched against reference patterns ("three tier", "3계층")
and scanned for component mentions; a configured model backend refines
the extraction but is never required.

Examples:
  architect design "three tier web service architecture"
  architect design "3계층 웹 아키텍처 만들어줘" --json
  architect design "web server with a database" --out diagram.json

Exit Codes:
  0 = Diagram produced
  1 = Prompt not recognized (no diagram)
  2 = Error`,
		Args: cobra.MinimumNArgs(1),
		Run:  runDesignCommand, // Defined in cmd_design.go
	}

	// --- Apply ---
	applyCmd = &cobra.Command{
		Use:   "apply [prompt...]",
		Short: "Apply a change prompt to an existing diagram file",
		Long: `Apply edits a saved diagram with a natural-language change request.

The detected action routes the edit: removal and modification prompts go
through the modify path, everything else adds components. The original
file is never rewritten unless --out points at it. Each successful edit
is risk-assessed against the knowledge graph.

Examples:
  architect apply --spec diagram.json "Add a WAF"
  architect apply --spec diagram.json "remove fw-1" --out next.json
  architect apply --spec diagram.json "웹 서버 앞에 WAF 추가해줘" --json

Exit Codes:
  0 = Change applied
  1 = Prompt not recognized (diagram unchanged)
  2 = Error`,
		Args: cobra.MinimumNArgs(1),
		Run:  runApplyCommand, // Defined in cmd_design.go
	}

	// --- Knowledge ---
	knowledgeCmd = &cobra.Command{
		Use:   "knowledge",
		Short: "Inspect the embedded knowledge graph",
		Long: `Use knowledge + subcommands to inspect the component vocabulary,
relationships, and reference patterns that are embedded in the architect
binary. You can curate new corpus versions as long as you rebuild the
binary; lint validates a corpus directory before you do.`,
	}
	knowledgeComponentsCmd = &cobra.Command{
		Use:   "components",
		Short: "List the component vocabulary with tiers and security flags",
		Run:   runKnowledgeComponents, // Defined in cmd_knowledge.go
	}
	knowledgeRelationshipsCmd = &cobra.Command{
		Use:   "relationships [component-type]",
		Short: "List curated relationships for one component type",
		Args:  cobra.ExactArgs(1),
		Run:   runKnowledgeRelationships, // Defined in cmd_knowledge.go
	}
	knowledgePatternsCmd = &cobra.Command{
		Use:   "patterns",
		Short: "List the reference architecture patterns in match order",
		Run:   runKnowledgePatterns, // Defined in cmd_knowledge.go
	}
	knowledgeLintCmd = &cobra.Command{
		Use:   "lint [corpus-dir]",
		Short: "Validate a knowledge corpus directory without rebuilding",
		Long: `Lint loads the four corpus YAML files (relationships.yaml,
patterns.yaml, anti_patterns.yaml, failure_scenarios.yaml) from a
directory and runs the same validation the embedded corpus goes
through at startup.

Exit Codes:
  0 = Corpus is valid
  1 = Corpus failed validation
  2 = Error (directory unreadable)`,
		Args: cobra.ExactArgs(1),
		Run:  runKnowledgeLint, // Defined in cmd_knowledge.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging on stderr")

	rootCmd.AddCommand(designCmd)
	designCmd.Flags().BoolVar(&designJSON, "json", false, "Output the build result as JSON")
	designCmd.Flags().StringVarP(&designOut, "out", "o", "", "Write the diagram JSON to a file")
	designCmd.Flags().BoolVar(&designNoModel, "no-model", false,
		"Skip the model backend and use only the keyword rules")
	designCmd.Flags().BoolVar(&designNoTemplates, "no-templates", false,
		"Skip pattern matching; the prompt must name components")
	designCmd.Flags().IntVar(&designTimeout, "timeout", 60, "Model call timeout in seconds")

	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applySpecPath, "spec", "s", "", "Path to the current diagram JSON (required)")
	applyCmd.MarkFlagRequired("spec")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Output the build result as JSON")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "Write the updated diagram JSON to a file")
	applyCmd.Flags().BoolVar(&applyNoModel, "no-model", false,
		"Skip the model backend and use only the keyword rules")
	applyCmd.Flags().BoolVar(&applyNoRisk, "no-risk", false, "Skip the change risk assessment")
	applyCmd.Flags().IntVar(&applyTimeout, "timeout", 60, "Model call timeout in seconds")

	rootCmd.AddCommand(knowledgeCmd)
	knowledgeCmd.AddCommand(knowledgeComponentsCmd)
	knowledgeComponentsCmd.Flags().BoolVar(&knowComponentsJSON, "json", false, "Output as JSON")
	knowledgeCmd.AddCommand(knowledgeRelationshipsCmd)
	knowledgeRelationshipsCmd.Flags().BoolVar(&knowRelationshipsJSON, "json", false, "Output as JSON")
	knowledgeCmd.AddCommand(knowledgePatternsCmd)
	knowledgePatternsCmd.Flags().BoolVar(&knowPatternsJSON, "json", false, "Output as JSON")
	knowledgeCmd.AddCommand(knowledgeLintCmd)
	knowledgeLintCmd.Flags().BoolVar(&knowLintJSON, "json", false, "Output as JSON")
}
