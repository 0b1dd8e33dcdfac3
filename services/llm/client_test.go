// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestOllamaClient creates an OllamaClient pointing to a test server,
// bypassing the environment variable configuration.
func newTestOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

// =============================================================================
// Ollama Client Tests
// =============================================================================

func TestOllamaClient_Generate(t *testing.T) {
	var captured ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected /api/chat, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: `{"action":"add"}`},
			Done:    true,
		})
	}))
	defer server.Close()

	client := newTestOllamaClient(server.URL, "test-model")
	out, err := client.Generate(context.Background(), "add a firewall", GenerationParams{
		System: "You extract intent.",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != `{"action":"add"}` {
		t.Errorf("unexpected output: %q", out)
	}

	if captured.Model != "test-model" {
		t.Errorf("model = %q, want test-model", captured.Model)
	}
	if captured.Stream {
		t.Error("intent extraction must request a non-streaming response")
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("expected system + user messages, got %+v", captured.Messages)
	}
}

func TestOllamaClient_Generate_ModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'missing' not found, try pulling it first"}`))
	}))
	defer server.Close()

	client := newTestOllamaClient(server.URL, "missing")
	_, err := client.Generate(context.Background(), "prompt", GenerationParams{})
	if err == nil {
		t.Fatal("expected an error for a missing model")
	}
	if !strings.Contains(err.Error(), "ollama pull") {
		t.Errorf("error should tell the user to pull the model: %v", err)
	}
}

func TestOllamaClient_Generate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := newTestOllamaClient(server.URL, "test-model")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Generate(ctx, "prompt", GenerationParams{})
	if err == nil {
		t.Fatal("expected an error after the context deadline")
	}
}

// =============================================================================
// llama.cpp Client Tests
// =============================================================================

func TestLocalLlamaCppClient_Generate(t *testing.T) {
	var captured llamaCppRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completion" {
			t.Errorf("expected /completion, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(llamaCppResponse{Content: "generated"})
	}))
	defer server.Close()

	client := &LocalLlamaCppClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    server.URL,
	}
	maxTokens := 256
	out, err := client.Generate(context.Background(), "describe", GenerationParams{
		System:    "system text",
		MaxTokens: &maxTokens,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "generated" {
		t.Errorf("unexpected output: %q", out)
	}
	// The /completion endpoint has no message roles; the system text is
	// folded into the prompt.
	if !strings.HasPrefix(captured.Prompt, "system text\n\n") {
		t.Errorf("system text not prepended: %q", captured.Prompt)
	}
	if captured.NPredict != 256 {
		t.Errorf("n_predict = %d, want 256", captured.NPredict)
	}
}

// =============================================================================
// Factory Tests
// =============================================================================

func TestNewFromEnv(t *testing.T) {
	t.Run("empty backend disables the model", func(t *testing.T) {
		client, err := NewFromEnv("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client != nil {
			t.Error("empty backend should yield a nil client")
		}
	})

	t.Run("none disables the model", func(t *testing.T) {
		client, err := NewFromEnv("none")
		if err != nil || client != nil {
			t.Errorf("got (%v, %v), want (nil, nil)", client, err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewFromEnv("watsonx")
		if !errors.Is(err, ErrUnknownProvider) {
			t.Errorf("expected ErrUnknownProvider, got %v", err)
		}
	})

	t.Run("ollama requires a base URL", func(t *testing.T) {
		t.Setenv("OLLAMA_BASE_URL", "")
		if _, err := NewFromEnv("ollama"); err == nil {
			t.Error("expected an error without OLLAMA_BASE_URL")
		}
	})

	t.Run("llamacpp requires a base URL", func(t *testing.T) {
		t.Setenv("LLM_SERVICE_URL_BASE", "")
		if _, err := NewFromEnv("llamacpp"); err == nil {
			t.Error("expected an error without LLM_SERVICE_URL_BASE")
		}
	})

	t.Run("ollama builds from the environment", func(t *testing.T) {
		t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")
		t.Setenv("OLLAMA_MODEL", "llama3")
		client, err := NewFromEnv("ollama")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := client.(*OllamaClient); !ok {
			t.Errorf("expected an *OllamaClient, got %T", client)
		}
	})
}
