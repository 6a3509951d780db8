package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Classify(ctx context.Context, prompt string) (ClassificationResponse, error)
}

// ClassificationResponse is the structured verdict returned by a provider.
type ClassificationResponse struct {
	Classification string  `json:"classification"`
	Reasoning      string  `json:"reasoning"`
	SICCode        string  `json:"sicCode,omitempty"`
	SICDescription string  `json:"sicDescription,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// Config holds configuration for the LLM classifier.
type Config struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	MaxRetries     int
	RetryDelay     time.Duration
	CacheTTL       time.Duration
	Timeout        time.Duration
	RateLimit      int
	ConsensusCalls int
	Temperature    float64
	MaxTokens      int
}

const (
	defaultTimeout     = 30 * time.Second
	defaultTemperature = 0.1
	defaultMaxTokens   = 300
)

func (c Config) temperature() float64 {
	if c.Temperature == 0 {
		return defaultTemperature
	}
	return c.Temperature
}

func (c Config) maxTokens() int {
	if c.MaxTokens == 0 {
		return defaultMaxTokens
	}
	return c.MaxTokens
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}
