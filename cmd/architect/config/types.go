// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// ArchitectConfig is the persisted CLI configuration.
//
// It lives at ~/.architect/architect.yaml and is created with defaults on
// first run. The gateway service ignores this file entirely; it is
// configured through environment variables.
type ArchitectConfig struct {
	// ModelBackend decides whether prompts go through a model first or
	// straight to the keyword rules.
	ModelBackend BackendConfig `yaml:"model_backend"`

	// Designer: toggles for the deterministic design paths.
	Designer DesignerConfig `yaml:"designer"`

	// Logs: CLI logging destination and level.
	Logs LogConfig `yaml:"logs"`
}

type BackendConfig struct {
	// Type can be "anthropic", "openai", "ollama", or "" to run without a
	// model. Provider credentials come from the environment, never from
	// this file.
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url,omitempty"`
}

type DesignerConfig struct {
	// UseTemplates matches prompts against the reference patterns. With it
	// on, design never fails to produce a diagram.
	UseTemplates bool `yaml:"use_templates"`
	// UseDetection runs the keyword component scanner over prompts.
	UseDetection bool `yaml:"use_detection"`
}

type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Dir enables file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir,omitempty"`
}

func DefaultConfig() ArchitectConfig {
	return ArchitectConfig{
		ModelBackend: BackendConfig{
			// Empty means deterministic rules only. The CLI works fully
			// offline out of the box.
			Type: "",
		},
		Designer: DesignerConfig{
			UseTemplates: true,
			UseDetection: true,
		},
		Logs: LogConfig{
			Level: "info",
		},
	}
}
