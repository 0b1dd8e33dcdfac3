// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// Severity grades warnings and anti-pattern findings.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the severity's ordering weight; higher is more severe.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Exceeds reports whether s is strictly more severe than the threshold.
func (s Severity) Exceeds(threshold Severity) bool {
	return s.Rank() > threshold.Rank()
}

// CommandType tags which builder entry point produced a result.
type CommandType string

const (
	CommandCreate CommandType = "create"
	CommandAdd    CommandType = "add"
	CommandModify CommandType = "modify"
)

// WarningConflict is the only warning type the knowledge layer currently
// emits: two components whose co-presence the corpus marks as conflicting.
const WarningConflict = "conflict"

// Warning flags a knowledge-graph conflict found in a diagram. Severity
// derives from the relationship strength: mandatory conflicts are critical,
// strong conflicts high, weak conflicts medium.
type Warning struct {
	Type       string          `json:"type"`
	Severity   Severity        `json:"severity"`
	Message    string          `json:"message"`
	Components []ComponentType `json:"components"`
}

// SuggestionType separates must-add dependencies from nice-to-haves.
type SuggestionType string

const (
	SuggestionMandatory   SuggestionType = "mandatory"
	SuggestionRecommended SuggestionType = "recommended"
)

// Suggestion proposes adding a component the knowledge graph says the
// current diagram is missing. Mandatory suggestions carry a bilingual
// (Korean and English) reason.
type Suggestion struct {
	Type      SuggestionType `json:"type"`
	Component ComponentType  `json:"component"`
	Reason    string         `json:"reason"`
}

// BuildResult is the uniform envelope returned by every builder operation.
//
// Warnings, Suggestions, and Explanation are populated only on success and
// omitted from JSON when empty. On failure Success is false, Error carries a
// human-readable message, and Spec is nil: the caller's current diagram is
// untouched.
type BuildResult struct {
	Success     bool         `json:"success"`
	Spec        *InfraSpec   `json:"spec,omitempty"`
	CommandType CommandType  `json:"commandType,omitempty"`
	Warnings    []Warning    `json:"warnings,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Failure builds an unsuccessful result carrying only the error message.
func Failure(msg string) BuildResult {
	return BuildResult{Success: false, Error: msg}
}
