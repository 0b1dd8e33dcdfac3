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

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".architect", "architect.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed: %v", err)
	}

	// Verify the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	// Read and verify the config
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	var cfg ArchitectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}

	// Verify some defaults
	if cfg.ModelBackend.Type != "" {
		t.Errorf("ModelBackend.Type = %q, want empty (offline default)", cfg.ModelBackend.Type)
	}
	if !cfg.Designer.UseTemplates {
		t.Error("Designer.UseTemplates should default to true")
	}
	if !cfg.Designer.UseDetection {
		t.Error("Designer.UseDetection should default to true")
	}
	if cfg.Logs.Level != "info" {
		t.Errorf("Logs.Level = %q, want %q", cfg.Logs.Level, "info")
	}
}

// TestCreateDefault_DirectoryCreation verifies directory is created.
func TestCreateDefault_DirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()

	// Use a nested path
	configPath := filepath.Join(tempDir, "deep", "nested", "path", "architect.yaml")

	if err := createDefault(configPath); err != nil {
		t.Fatalf("createDefault() failed with nested path: %v", err)
	}

	// Verify the directories were created
	dirPath := filepath.Dir(configPath)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		t.Fatal("nested directories were not created")
	}
}

// TestDefaultConfig verifies the in-memory defaults before serialization.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModelBackend.Type != "" {
		t.Errorf("default backend should be empty, got %q", cfg.ModelBackend.Type)
	}
	if cfg.ModelBackend.BaseURL != "" {
		t.Errorf("default base URL should be empty, got %q", cfg.ModelBackend.BaseURL)
	}
	if !cfg.Designer.UseTemplates || !cfg.Designer.UseDetection {
		t.Error("both designer paths should be enabled by default")
	}
	if cfg.Logs.Dir != "" {
		t.Errorf("file logging should be off by default, got dir %q", cfg.Logs.Dir)
	}
}
