// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package designer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/AleutianAI/ArchitectLocal/services/designer/datatypes"
)

var createPrompts = []string{
	"3-tier web app",
	"secure web service",
	"vdi environment for remote work",
	"create a website",
	"msa platform",
	"company mail system",
	"something unclassifiable",
}

var mutationPrompts = []string{
	"add a waf",
	"add a database",
	"add a load balancer",
	"add a cache",
	"add a backup",
	"add intrusion detection",
	"add a monitoring server",
	"웹 서버 추가",
	"remove the firewall",
	"remove the web server",
	"remove the database",
	"방화벽 제거",
	"remove the load balancer",
}

// TestBuilderProperties verifies structural invariants that must hold for
// every diagram any builder sequence can produce.
func TestBuilderProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	b := newTestBuilder(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Any sequence of creates, adds, and removals leaves a spec whose every
	// connection endpoint exists: no mutation can emit a dangling edge.
	properties.Property("mutation sequences never dangle", prop.ForAll(
		func(seed int, ops []int) bool {
			res := b.Create(createPrompts[seed], DefaultCreateOptions())
			if !res.Success || res.Spec.Validate() != nil {
				return false
			}
			spec := res.Spec
			for _, op := range ops {
				prompt := mutationPrompts[op]
				intent := DetectIntent(prompt, spec)
				if intent == nil {
					continue
				}
				var step datatypes.BuildResult
				switch intent.Action {
				case datatypes.ActionRemove, datatypes.ActionModify:
					step = b.Modify(prompt, spec, intent)
				default:
					step = b.Add(prompt, spec, intent)
				}
				if !step.Success {
					continue
				}
				if step.Spec.Validate() != nil {
					return false
				}
				spec = step.Spec
			}
			return true
		},
		gen.IntRange(0, len(createPrompts)-1),
		gen.SliceOf(gen.IntRange(0, len(mutationPrompts)-1)),
	))

	// Template matching never returns nil and ignores letter case.
	properties.Property("template matching is total and case-insensitive", prop.ForAll(
		func(s string) bool {
			lower := b.MatchTemplate(strings.ToLower(s))
			upper := b.MatchTemplate(strings.ToUpper(s))
			return lower != nil && upper != nil && lower.ID == upper.ID
		},
		gen.AlphaString(),
	))

	// Identical input resolves to the identical template.
	properties.Property("template matching is deterministic", prop.ForAll(
		func(s string) bool {
			return b.MatchTemplate(s).ID == b.MatchTemplate(s).ID
		},
		gen.AnyString(),
	))

	// Mutations operate on a clone: the caller's spec never changes, whether
	// the operation succeeds or fails.
	properties.Property("add and modify never mutate their input", prop.ForAll(
		func(seed, op int) bool {
			current := b.Create(createPrompts[seed], DefaultCreateOptions()).Spec
			before := current.Clone()

			prompt := mutationPrompts[op]
			intent := DetectIntent(prompt, current)
			if intent != nil && (intent.Action == datatypes.ActionRemove || intent.Action == datatypes.ActionModify) {
				b.Modify(prompt, current, intent)
			} else {
				b.Add(prompt, current, intent)
			}
			return reflect.DeepEqual(current, before)
		},
		gen.IntRange(0, len(createPrompts)-1),
		gen.IntRange(0, len(mutationPrompts)-1),
	))

	// Creation is pure: the same prompt always yields the same diagram.
	properties.Property("create is deterministic", prop.ForAll(
		func(seed int) bool {
			first := b.Create(createPrompts[seed], DefaultCreateOptions())
			second := b.Create(createPrompts[seed], DefaultCreateOptions())
			return reflect.DeepEqual(first, second)
		},
		gen.IntRange(0, len(createPrompts)-1),
	))

	properties.TestingRun(t)
}
