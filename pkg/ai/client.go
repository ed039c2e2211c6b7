// Package ai wraps the OpenAI chat completions endpoint for the
// symptom-checker feature.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nabhcare/nabh-backend/config"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 20 * time.Second
	defaultTokens  = 150
)

// ErrNotConfigured is returned before any network call when no API key
// is present.
var ErrNotConfigured = errors.New("ai service is not configured")

// UpstreamError carries the status code and raw payload of a failed
// completion call so the handler can log what the provider said.
type UpstreamError struct {
	StatusCode int
	Payload    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai upstream returned %d: %s", e.StatusCode, e.Payload)
}

// Client calls the chat completions API with a fixed medical prompt.
type Client struct {
	http      *resty.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewFromCentral creates a Client from the application configuration.
// A missing API key is not an error here; Suggest reports it per call
// so the rest of the platform can run without AI credentials.
func NewFromCentral(cfg config.AIConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultTokens
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      http,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Suggest asks the model for possible conditions matching the symptoms.
// The returned string is the raw model text; interpretation is left to
// the caller (and ultimately the patient's clinician).
func (c *Client) Suggest(ctx context.Context, symptoms []string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if len(symptoms) == 0 {
		return "", errors.New("no symptoms provided")
	}

	prompt := fmt.Sprintf(
		"Patient reports the following symptoms: %s. Suggest possible medical conditions (up to 5) in a concise list.",
		strings.Join(symptoms, ", "),
	)

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "user", Content: prompt},
			},
			MaxTokens: c.maxTokens,
		}).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("ai request failed: %w", err)
	}

	if resp.IsError() {
		return "", &UpstreamError{
			StatusCode: resp.StatusCode(),
			Payload:    strings.TrimSpace(string(resp.Body())),
		}
	}

	if len(out.Choices) == 0 {
		return "", errors.New("ai response contained no choices")
	}

	return out.Choices[0].Message.Content, nil
}
