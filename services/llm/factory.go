package llm

import (
	"fmt"
	"log/slog"
)

// NewFromEnv builds the client for the named backend, with provider
// configuration read from the environment by the individual constructors.
//
// Supported backends: "anthropic" (alias "claude"), "openai", "ollama"
// (alias "local"), and "llamacpp" for a bare llama.cpp server. An empty or
// "none" backend returns (nil, nil): the caller runs without a model and
// every prompt takes the deterministic fallback path.
func NewFromEnv(backend string) (Client, error) {
	switch backend {
	case "claude", "anthropic":
		slog.Info("Using Anthropic (Claude) LLM backend")
		return NewAnthropicClient()
	case "openai":
		slog.Info("Using OpenAI LLM backend")
		return NewOpenAIClient()
	case "ollama", "local":
		slog.Info("Using Ollama LLM backend")
		return NewOllamaClient()
	case "llamacpp":
		slog.Info("Using llama.cpp LLM backend")
		return NewLocalLlamaCppClient()
	case "", "none":
		slog.Warn("LLM_BACKEND_TYPE not set, running with deterministic fallback only")
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, backend)
	}
}
