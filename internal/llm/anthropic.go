package llm

import (
	"context"
	"errors"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-haiku-latest"
)

type anthropicClient struct {
	api         endpoint
	model       string
	temperature float64
	maxTokens   int
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}

	return &anthropicClient{
		api: newEndpoint("Anthropic", withDefault(cfg.BaseURL, anthropicBaseURL), "/v1/messages", cfg.timeout(),
			map[string]string{"x-api-key": cfg.APIKey, "anthropic-version": anthropicVersion}),
		model:       withDefault(cfg.Model, anthropicDefaultModel),
		temperature: cfg.temperature(),
		maxTokens:   cfg.maxTokens(),
	}, nil
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Classify asks the messages API for a JSON verdict and parses the first
// text block.
func (c *anthropicClient) Classify(ctx context.Context, prompt string) (ClassificationResponse, error) {
	req := anthropicRequest{
		Model:       c.model,
		System:      systemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var resp anthropicResponse
	if err := c.api.post(ctx, req, &resp); err != nil {
		return ClassificationResponse{}, err
	}

	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			return parseClassification(block.Text)
		}
	}
	return ClassificationResponse{}, parseError(errors.New("no text content in response"))
}
