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
	"github.com/AleutianAI/ArchitectLocal/services/knowledge"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Operation completed with findings (unrecognized prompt, invalid corpus)
	CLIExitError    = 2 // Operation failed
)

// OutputJSON writes structured data as indented JSON to stdout.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError writes an error in the appropriate format: a JSON envelope on
// stdout in JSON mode, a plain line on stderr otherwise.
func OutputError(jsonMode bool, msg string, err error) {
	if jsonMode {
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

// DesignOutput is the JSON envelope for design and apply commands. Risk is
// present only after a successful apply.
type DesignOutput struct {
	Result datatypes.BuildResult `json:"result"`
	Risk   *risk.ChangeRisk      `json:"risk,omitempty"`
}

// ComponentListResult holds knowledge components output.
type ComponentListResult struct {
	Components []knowledge.ComponentInfo `json:"components"`
	Count      int                       `json:"count"`
}

// RelationshipListResult holds knowledge relationships output.
type RelationshipListResult struct {
	Type          datatypes.ComponentType  `json:"type"`
	Relationships []knowledge.Relationship `json:"relationships"`
	Count         int                      `json:"count"`
}

// PatternListResult holds knowledge patterns output.
type PatternListResult struct {
	Patterns []knowledge.Pattern `json:"patterns"`
	Count    int                 `json:"count"`
}

// LintResult holds knowledge lint output.
type LintResult struct {
	Valid        bool   `json:"valid"`
	Error        string `json:"error,omitempty"`
	Components   int    `json:"components,omitempty"`
	Patterns     int    `json:"patterns,omitempty"`
	AntiPatterns int    `json:"antiPatterns,omitempty"`
}
