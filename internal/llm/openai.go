package llm

import (
	"context"
	"errors"
)

const (
	openAIBaseURL      = "https://api.openai.com"
	openAIDefaultModel = "gpt-4o-mini"
)

type openAIClient struct {
	api         endpoint
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	return &openAIClient{
		api: newEndpoint("OpenAI", withDefault(cfg.BaseURL, openAIBaseURL), "/v1/chat/completions", cfg.timeout(),
			map[string]string{"Authorization": "Bearer " + cfg.APIKey}),
		model:       withDefault(cfg.Model, openAIDefaultModel),
		temperature: cfg.temperature(),
		maxTokens:   cfg.maxTokens(),
	}, nil
}

type openAIRequest struct {
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Classify asks the chat completions API for a JSON verdict.
func (c *openAIClient) Classify(ctx context.Context, prompt string) (ClassificationResponse, error) {
	req := openAIRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	req.ResponseFormat.Type = "json_object"

	var resp openAIResponse
	if err := c.api.post(ctx, req, &resp); err != nil {
		return ClassificationResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return ClassificationResponse{}, parseError(errors.New("no choices in response"))
	}
	return parseClassification(resp.Choices[0].Message.Content)
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
