package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// PayeeClassifier is satisfied by Classifier and ConsensusClassifier.
type PayeeClassifier interface {
	Classify(ctx context.Context, name string) (Result, error)
}

// NewClient creates a raw provider client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// New builds the configured classifier: a ConsensusClassifier when
// cfg.ConsensusCalls is at least two, otherwise a single-call Classifier.
func New(cfg Config, logger *slog.Logger) (PayeeClassifier, error) {
	base, err := NewClassifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.ConsensusCalls >= MinConsensusCalls {
		return NewConsensusClassifier(base, cfg.ConsensusCalls, logger), nil
	}
	return base, nil
}
