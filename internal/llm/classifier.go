package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
	"github.com/Veraticus/payee-classifier/internal/service"
)

// Result is a reconciled AI verdict for one payee name.
type Result struct {
	Classification model.Classification
	Reasoning      string
	SICCode        string
	SICDescription string
	MatchingRules  []string
	Confidence     int
	// Votes is the number of provider replies the verdict was built from.
	Votes int
}

// Classifier classifies payee names through a single provider call per name,
// with caching, rate limiting and retries.
type Classifier struct {
	client      Client
	cache       *resultCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
	timeout     time.Duration
}

// NewClassifier creates a new LLM-based classifier.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, logger), nil
}

// NewClassifierWithClient wraps an existing provider client.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Classifier{
		client:      client,
		cache:       newResultCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		timeout:     cfg.timeout(),
	}
}

// Classify returns the provider's verdict for name. The whole call,
// retries included, is bounded by the configured timeout.
func (c *Classifier) Classify(ctx context.Context, name string) (Result, error) {
	key := normalize.Name(name)
	if key == "" {
		return Result{}, &Error{Kind: ErrorKindUnknown, Err: errors.New("empty payee name")}
	}

	if cached, ok := c.cache.get(key); ok {
		c.logger.Debug("AI cache hit", "payee", name)
		return cached, nil
	}

	result, err := c.query(ctx, name)
	if err != nil {
		return Result{}, err
	}

	c.cache.set(key, result)
	return result, nil
}

// query performs one uncached, rate limited, retried provider call.
func (c *Classifier) query(ctx context.Context, name string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildClassificationPrompt(name)

	var result Result
	err := common.WithRetry(ctx, func() error {
		if err := c.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}

		resp, err := c.client.Classify(ctx, prompt)
		if err != nil {
			var llmErr *Error
			retryable := errors.As(err, &llmErr) && llmErr.Retryable()
			return common.MarkRetryable(err, retryable)
		}

		r, err := toResult(resp)
		if err != nil {
			return common.Permanent(err)
		}
		result = r
		return nil
	}, c.retryOpts)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded) && KindOf(err) == ErrorKindUnknown {
			err = &Error{Kind: ErrorKindTimeout, Err: err}
		}
		return Result{}, err
	}

	return result, nil
}

func toResult(resp ClassificationResponse) (Result, error) {
	var classification model.Classification
	switch strings.ToLower(strings.TrimSpace(resp.Classification)) {
	case "business":
		classification = model.Business
	case "individual":
		classification = model.Individual
	default:
		return Result{}, parseError(fmt.Errorf("unknown classification %q", resp.Classification))
	}

	confidence := resp.Confidence
	if confidence > 0 && confidence <= 1 {
		confidence *= 100
	}

	result := Result{
		Classification: classification,
		Confidence:     model.ClampConfidence(int(math.Round(confidence))),
		Reasoning:      strings.TrimSpace(resp.Reasoning),
		MatchingRules:  []string{"AI classification"},
		Votes:          1,
	}
	if classification == model.Business {
		result.SICCode = strings.TrimSpace(resp.SICCode)
		result.SICDescription = strings.TrimSpace(resp.SICDescription)
	}
	return result, nil
}
