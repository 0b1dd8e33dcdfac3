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
	"fmt"
	"strings"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// systemInstruction is the fixed base instruction for intent extraction.
// Knowledge guidance from the previous turn is appended after a blank line;
// the base text itself never changes at runtime.
var systemInstruction = buildSystemInstruction()

func buildSystemInstruction() string {
	var b strings.Builder
	b.WriteString(`You analyze one instruction about a network/security architecture diagram.
The instruction may be in Korean or English.
Respond with exactly one JSON object and nothing else:

{
  "action": "create" | "add" | "remove" | "modify",
  "components": ["<component-type>", ...],
  "position": {"relation": "behind" | "in-front-of" | "between" | "replace", "anchor": "<component-type>"},
  "label": "<display label if the user named one>",
  "confidence": <0.0-1.0>
}

"position" and "label" are optional; omit them when the instruction gives no hint.
"components" lists only component types from this closed vocabulary:
`)
	var types []string
	for _, t := range datatypes.AllComponentTypes() {
		types = append(types, string(t))
	}
	b.WriteString(strings.Join(types, ", "))
	b.WriteString(`

Rules:
- Use "create" when the user describes a whole new architecture, "add"/"remove"/"modify" for edits.
- Map synonyms onto the vocabulary (예: "디비" -> db-server, "방화벽" -> firewall, "L7 스위치" -> load-balancer).
- Never invent component types outside the vocabulary; drop what does not map.
- confidence reflects how sure you are about action and components together.`)
	return b.String()
}

// buildUserPrompt renders the model's user turn: current diagram first, then
// the instruction.
func buildUserPrompt(req Request) string {
	summary := req.SpecSummary
	if summary == "" {
		summary = "(empty diagram)"
	}
	return fmt.Sprintf("Current diagram:\n%s\n\nInstruction: %s", summary, req.Prompt)
}
