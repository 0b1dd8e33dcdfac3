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

	"github.com/tidwall/gjson"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

// ExtractIntent pulls the first valid intent object out of a model response.
//
// Models return the JSON bare, inside a markdown fence (with or without a
// language tag), or buried in prose. Fenced blocks are tried first, then
// every top-level JSON object found in the raw text, in order. An object
// counts as valid when it has a recognized action and survives vocabulary
// normalization.
func ExtractIntent(raw string) (*datatypes.IntentAnalysis, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var candidates []string
	candidates = append(candidates, fencedBlocks(raw)...)
	candidates = append(candidates, raw)

	for _, candidate := range candidates {
		for _, obj := range jsonObjects(candidate) {
			if intent := intentFromJSON(obj); intent != nil {
				return intent, nil
			}
		}
	}
	return nil, fmt.Errorf("no valid intent JSON in model response")
}

// fencedBlocks returns the contents of every ``` fenced block, language tags
// stripped, in document order.
func fencedBlocks(s string) []string {
	var out []string
	for {
		start := strings.Index(s, "```")
		if start < 0 {
			return out
		}
		rest := s[start+3:]
		// Drop the language tag (everything to end of the opening line).
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		} else {
			return out
		}
		end := strings.Index(rest, "```")
		if end < 0 {
			// Unterminated fence: take the remainder, models truncate.
			out = append(out, strings.TrimSpace(rest))
			return out
		}
		out = append(out, strings.TrimSpace(rest[:end]))
		s = rest[end+3:]
	}
}

// jsonObjects scans s for balanced top-level {...} spans, honoring strings
// and escapes, and returns them in order.
func jsonObjects(s string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

// intentFromJSON maps one candidate object onto an IntentAnalysis, returning
// nil when the object is not a usable intent.
func intentFromJSON(obj string) *datatypes.IntentAnalysis {
	if !gjson.Valid(obj) {
		return nil
	}
	doc := gjson.Parse(obj)
	action := doc.Get("action")
	if !action.Exists() {
		return nil
	}

	intent := &datatypes.IntentAnalysis{
		Action:     datatypes.IntentAction(strings.ToLower(strings.TrimSpace(action.String()))),
		Label:      doc.Get("label").String(),
		Confidence: doc.Get("confidence").Float(),
	}
	for _, c := range doc.Get("components").Array() {
		intent.Components = append(intent.Components, datatypes.ComponentType(c.String()))
	}
	if pos := doc.Get("position"); pos.IsObject() {
		hint := &datatypes.PositionHint{
			Relation: datatypes.PositionRelation(strings.ToLower(pos.Get("relation").String())),
			Anchor:   datatypes.ComponentType(pos.Get("anchor").String()),
		}
		if second := pos.Get("secondAnchor"); second.Exists() {
			if t, ok := datatypes.ParseComponentType(second.String()); ok {
				hint.SecondAnchor = t
			}
		}
		intent.Position = hint
	}

	if !intent.Normalize() {
		return nil
	}
	return intent
}
