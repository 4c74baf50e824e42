// Package openrouter is a thin HTTP client for the OpenRouter API, covering
// the chat-completion and embedding endpoints the application consumes.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/infrastructure/config"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

const (
	chatTimeout      = 20 * time.Second
	embeddingTimeout = 10 * time.Second
)

// Client talks to the OpenRouter API. A zero API key leaves the client in
// an unconfigured state; callers are expected to check Configured and fall
// back to their deterministic paths.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string
	appURL         string
	appName        string
	jsonMode       bool
}

// NewClient creates an OpenRouter client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: chatTimeout},
		baseURL:        defaultBaseURL,
		apiKey:         cfg.OpenRouterAPIKey,
		model:          cfg.OpenRouterModel,
		embeddingModel: cfg.OpenRouterEmbeddingModel,
		appURL:         cfg.OpenRouterAppURL,
		appName:        cfg.OpenRouterAppName,
		jsonMode:       cfg.OpenRouterJSONMode,
	}
}

// Configured reports whether an API credential is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// JSONModeEnabled reports whether structured-JSON mode is requested for
// chat completions.
func (c *Client) JSONModeEnabled() bool {
	return c.jsonMode
}

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []ports.ChatMessage `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a chat-completion request and returns the generated text.
func (c *Client) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("openrouter: no API key configured")
	}

	body := chatCompletionRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := c.post(ctx, "/chat/completions", body, chatTimeout)
	if err != nil {
		return "", err
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openrouter: decoding chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openrouter: empty choices in chat response")
	}

	return contentToString(parsed.Choices[0].Message.Content), nil
}

// contentToString normalizes a message content field; models occasionally
// return structured content instead of a plain string.
func contentToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("openrouter: no API key configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("openrouter: empty input text")
	}

	raw, err := c.post(ctx, "/embeddings", embeddingRequest{Model: c.embeddingModel, Input: text}, embeddingTimeout)
	if err != nil {
		return nil, err
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("openrouter: decoding embedding response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openrouter: empty embedding in response")
	}

	return parsed.Data[0].Embedding, nil
}

// post sends a JSON POST to the given endpoint and returns the response body.
func (c *Client) post(ctx context.Context, path string, payload interface{}, timeout time.Duration) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openrouter: encoding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("openrouter: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.appURL != "" {
		req.Header.Set("HTTP-Referer", c.appURL)
	}
	if c.appName != "" {
		req.Header.Set("X-Title", c.appName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openrouter: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openrouter: HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
