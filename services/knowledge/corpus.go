// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
This file bridges the build system and the runtime store. The corpus YAML
files are baked into the binary with the Go embed package, so the knowledge
graph is immutable at runtime and travels with the executable; editing the
corpus means recompiling.
*/

package knowledge

import (
	_ "embed"
)

//go:embed corpus/relationships.yaml
var corpusRelationships []byte

//go:embed corpus/anti_patterns.yaml
var corpusAntiPatterns []byte

//go:embed corpus/failure_scenarios.yaml
var corpusFailureScenarios []byte

//go:embed corpus/patterns.yaml
var corpusPatterns []byte
