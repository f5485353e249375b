package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"docforge/internal/config"
)

// ErrDisabled is returned when generation is requested while the provider is
// disabled by configuration.
var ErrDisabled = errors.New("llm provider is disabled")

// Provider calls an OpenAI-compatible chat completions endpoint. It is the
// single suspension point for model generation: a failed or slow call
// surfaces as an error after bounded retries, never as partial content.
type Provider struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxRetries  int
	enabled     bool
	client      *http.Client
}

// NewProvider creates a new model provider from configuration
func NewProvider(cfg *config.LLMConfig) *Provider {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	return &Provider{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		enabled:     cfg.Enabled,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends a prompt to the model and returns the trimmed reply text.
// Transient failures (transport errors, 5xx, 429) are retried with
// exponential backoff up to the configured limit; exhaustion surfaces as an
// error.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.enabled {
		return "", ErrDisabled
	}

	operation := func() (string, error) {
		return p.generateOnce(ctx, prompt)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(p.maxRetries)),
		ctx,
	)

	text, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return "", fmt.Errorf("model generation failed: %w", err)
	}

	return text, nil
}

func (p *Provider) generateOnce(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: p.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Error("Model endpoint unreachable", "error", err)
		return "", err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("model endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
		slog.Error("Model call failed", "status", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
