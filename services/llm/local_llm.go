package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// LocalLlamaCppClient talks to a llama.cpp server's /completion endpoint.
// It has no model parameter: the server binary is started with one model.
type LocalLlamaCppClient struct {
	httpClient *http.Client
	baseURL    string
}

type llamaCppRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature *float32 `json:"temperature,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type llamaCppResponse struct {
	Content string `json:"content"`
}

func NewLocalLlamaCppClient() (*LocalLlamaCppClient, error) {
	baseURL := os.Getenv("LLM_SERVICE_URL_BASE")
	if baseURL == "" {
		return nil, fmt.Errorf("LLM_SERVICE_URL_BASE environment variable not set")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	slog.Info("Initializing llama.cpp client", "base_url", baseURL)
	return &LocalLlamaCppClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
	}, nil
}

// Generate implements the Client interface.
//
// llama.cpp's /completion takes a raw prompt, so the system text is
// prepended rather than sent as a separate message.
func (l *LocalLlamaCppClient) Generate(ctx context.Context, prompt string,
	params GenerationParams) (string, error) {

	completionURL := l.baseURL + "/completion"
	if params.System != "" {
		prompt = params.System + "\n\n" + prompt
	}

	payload := llamaCppRequest{
		Prompt:   prompt,
		NPredict: 1024,
	}
	if params.MaxTokens != nil {
		payload.NPredict = *params.MaxTokens
	}
	if params.Temperature != nil {
		payload.Temperature = params.Temperature
	} else {
		defaultTemperature := float32(0.2)
		payload.Temperature = &defaultTemperature
	}
	payload.TopK = params.TopK
	payload.TopP = params.TopP
	payload.Stop = params.Stop

	reqBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request to llama.cpp: %w", err)
	}
	slog.Debug("Generating text via llama.cpp", "url", completionURL)

	req, err := http.NewRequestWithContext(ctx, "POST", completionURL, bytes.NewBuffer(reqBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request to llama.cpp: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		slog.Error("llama.cpp API call failed", "error", err)
		return "", fmt.Errorf("llama.cpp API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from llama.cpp: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("llama.cpp returned an error", "status_code", resp.StatusCode, "response", string(respBodyBytes))
		return "", fmt.Errorf("llama.cpp failed with status %d: %s", resp.StatusCode, string(respBodyBytes))
	}

	var llamaResp llamaCppResponse
	if err := json.Unmarshal(respBodyBytes, &llamaResp); err != nil {
		return "", fmt.Errorf("failed to parse llama.cpp response: %w", err)
	}
	return llamaResp.Content, nil
}
