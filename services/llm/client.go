package llm

import (
	"context"
	"errors"
)

type GenerationParams struct {
	System      string   `json:"system,omitempty"`
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Client defines the standard interface for any LLM backend.
type Client interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

var (
	// ErrNoCredentials means the provider needs an API key and none was
	// found in the environment or secrets.
	ErrNoCredentials = errors.New("llm: missing API credentials")

	// ErrUnknownProvider means the configured backend name is not one we
	// can construct a client for.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)
