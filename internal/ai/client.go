// Package ai is a thin client for an OpenAI-compatible chat-completions
// endpoint. Works with OpenAI, Grok/xAI, Together, Ollama, and others.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tripweave-app/tripweave/internal/config"
	"github.com/tripweave-app/tripweave/internal/metrics"
)

// ErrEmptyCompletion marks a provider response that succeeded at the HTTP
// level but carried no usable text. Callers treat it separately from
// transport failures because the provider call itself was not retried-worthy.
var ErrEmptyCompletion = errors.New("ai: provider returned empty completion")

// ProviderError carries the upstream status for diagnostics.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai: provider returned %d: %s", e.StatusCode, e.Message)
}

// Completer is the interface consumed by the suggestion service.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client calls the configured completion provider.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// NewClient creates a completion client from config.
func NewClient(cfg config.AIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []struct {
		Message      apiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends one chat completion and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	}()

	msgs := make([]apiMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, apiMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, apiMessage{Role: "user", Content: user})

	body, err := json.Marshal(apiRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion provider: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return "", &ProviderError{StatusCode: httpResp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
