package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nabhcare/nabh-backend/config"
)

func TestSuggestWithoutAPIKey(t *testing.T) {
	c := NewFromCentral(config.AIConfig{})

	_, err := c.Suggest(context.Background(), []string{"fever"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestSuggestBuildsPrompt(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "1. Influenza"}},
			},
		})
	}))
	defer srv.Close()

	c := NewFromCentral(config.AIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
	})

	got, err := c.Suggest(context.Background(), []string{"fever", "cough"})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got != "1. Influenza" {
		t.Errorf("suggestion = %q", got)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotReq.Model != defaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, defaultModel)
	}
	if gotReq.MaxTokens != defaultTokens {
		t.Errorf("max_tokens = %d, want %d", gotReq.MaxTokens, defaultTokens)
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("messages = %d", len(gotReq.Messages))
	}
	prompt := gotReq.Messages[0].Content
	if !strings.Contains(prompt, "fever, cough") {
		t.Errorf("prompt missing joined symptoms: %q", prompt)
	}
	if !strings.Contains(prompt, "up to 5") {
		t.Errorf("prompt missing condition cap: %q", prompt)
	}
}

func TestSuggestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewFromCentral(config.AIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
	})

	_, err := c.Suggest(context.Background(), []string{"fever"})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("want UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", upstream.StatusCode)
	}
	if !strings.Contains(upstream.Payload, "rate limited") {
		t.Errorf("payload = %q", upstream.Payload)
	}
}

func TestSuggestEmptySymptoms(t *testing.T) {
	c := NewFromCentral(config.AIConfig{APIKey: "sk-test"})

	if _, err := c.Suggest(context.Background(), nil); err == nil {
		t.Fatal("want error for empty symptoms")
	}
}
