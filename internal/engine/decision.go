// Package engine implements the tiered payee decision engine and the batch
// processor that applies it to uploaded files.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/Veraticus/payee-classifier/internal/classification"
	"github.com/Veraticus/payee-classifier/internal/keyword"
	"github.com/Veraticus/payee-classifier/internal/llm"
	"github.com/Veraticus/payee-classifier/internal/model"
)

var (
	// ErrRowCountMismatch indicates original rows that do not line up with names.
	ErrRowCountMismatch = errors.New("original row count does not match name count")
	// ErrEmptyKeywordList indicates a batch was started without exclusion keywords.
	ErrEmptyKeywordList = errors.New("exclusion keyword list is empty")
	// ErrIntegrity indicates a batch result that lost its 1:1 row alignment.
	ErrIntegrity = errors.New("batch integrity check failed")
)

// Processing methods assigned by the engine itself.
const (
	MethodKeywordExclusion = "Keyword exclusion"
	MethodInvalidInput     = "Input validation"
	MethodEmergency        = "Emergency fallback"
	MethodAI               = "AI classification"
	MethodAIConsensus      = "AI consensus"
)

// Config holds configuration options for the decision engine.
type Config struct {
	Logger *slog.Logger
	// Offline skips the AI tier even when a classifier is configured.
	Offline bool
}

// DecisionEngine runs a payee name through the tier cascade:
// keyword exclusion, rules, extended rules, fuzzy matching, AI and finally
// the fallback heuristic. It never returns an error for a single name.
type DecisionEngine struct {
	keywords keyword.Provider
	rules    *classification.RuleClassifier
	extended *classification.ExtendedClassifier
	fuzzy    *classification.FuzzyClassifier
	ai       AIClassifier
	logger   *slog.Logger
	offline  bool
}

// NewDecisionEngine creates an engine. A nil keyword provider serves the
// built-in list and a nil AI classifier means offline operation.
func NewDecisionEngine(keywords keyword.Provider, ai AIClassifier, cfg Config) (*DecisionEngine, error) {
	rules, err := classification.NewRuleClassifier(classification.DefaultPatterns())
	if err != nil {
		return nil, fmt.Errorf("failed to build rule classifier: %w", err)
	}

	if keywords == nil {
		keywords = keyword.Static(keyword.Builtin())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DecisionEngine{
		keywords: keywords,
		rules:    rules,
		extended: classification.NewExtendedClassifier(),
		fuzzy:    classification.NewFuzzyClassifier(),
		ai:       ai,
		logger:   logger,
		offline:  cfg.Offline || ai == nil,
	}, nil
}

// Offline reports whether the AI tier is skipped.
func (e *DecisionEngine) Offline() bool {
	return e.offline
}

// Snapshot pins the current keyword list for a batch run.
func (e *DecisionEngine) Snapshot(ctx context.Context) (*keyword.List, error) {
	list := e.keywords.Current(ctx)
	if list == nil || list.Len() == 0 {
		return nil, ErrEmptyKeywordList
	}
	return list, nil
}

// Classify classifies one name against the current keyword list.
func (e *DecisionEngine) Classify(ctx context.Context, name string) model.ClassificationResult {
	return e.ClassifyWithKeywords(ctx, name, e.keywords.Current(ctx))
}

// ClassifyWithKeywords classifies one name against list. Panics in any tier
// are recovered into the emergency fallback result.
func (e *DecisionEngine) ClassifyWithKeywords(ctx context.Context, name string, list *keyword.List) (result model.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Classification panicked, using emergency fallback",
				"payee", name,
				"panic", r,
				"stack", string(debug.Stack()))
			result = emergencyFallback(fmt.Sprint(r))
		}
	}()

	if strings.TrimSpace(name) == "" {
		return model.ClassificationResult{
			Classification:   model.Individual,
			Confidence:       model.ConfidenceForceWebSearch,
			Reasoning:        "invalid input",
			ProcessingTier:   model.TierRuleBased,
			ProcessingMethod: MethodInvalidInput,
		}.WithKeywordExclusion(model.EmptyKeywordExclusion())
	}

	exclusion := model.EmptyKeywordExclusion()
	if list != nil {
		exclusion = list.Check(name)
	}

	if exclusion.IsExcluded {
		return model.ClassificationResult{
			Classification:   model.Business,
			Confidence:       max(exclusion.Confidence, model.ConfidenceMedium),
			Reasoning:        exclusion.Reasoning,
			ProcessingTier:   model.TierExcluded,
			ProcessingMethod: MethodKeywordExclusion,
			MatchingRules:    prefixed("Excluded keyword: ", exclusion.MatchedKeywords),
		}.WithKeywordExclusion(exclusion)
	}

	if r := e.rules.Apply(name); r != nil && r.Confidence >= model.ConfidenceReviewRequired {
		return r.WithKeywordExclusion(exclusion)
	}

	if r := e.extended.Apply(name); r != nil {
		return r.WithKeywordExclusion(exclusion)
	}

	if r := e.fuzzy.Apply(name); r != nil && r.Confidence >= model.ConfidenceReviewRequired {
		return r.WithKeywordExclusion(exclusion)
	}

	if r, ok := e.classifyWithAI(ctx, name); ok {
		return r.WithKeywordExclusion(exclusion)
	}

	return classification.Fallback(name).WithKeywordExclusion(exclusion)
}

func (e *DecisionEngine) classifyWithAI(ctx context.Context, name string) (model.ClassificationResult, bool) {
	if e.offline {
		return model.ClassificationResult{}, false
	}

	r, err := e.ai.Classify(ctx, name)
	if err != nil {
		e.logger.Warn("AI classification failed, falling back",
			"payee", name,
			"error_kind", llm.KindOf(err),
			"error", err)
		return model.ClassificationResult{}, false
	}

	tier, method := model.TierAIPowered, MethodAI
	if r.Votes > 1 {
		tier, method = model.TierAIAssisted, MethodAIConsensus
	}

	reasoning := r.Reasoning
	if reasoning == "" {
		reasoning = "Classified by AI"
	}

	result := model.ClassificationResult{
		Classification:   r.Classification,
		Confidence:       model.ClampConfidence(max(r.Confidence, model.ConfidenceReviewRequired)),
		Reasoning:        reasoning,
		ProcessingTier:   tier,
		ProcessingMethod: method,
		MatchingRules:    r.MatchingRules,
		SICCode:          r.SICCode,
		SICDescription:   r.SICDescription,
	}

	// Confident verdicts become references for the fuzzy tier.
	if result.Confidence >= model.ConfidenceHigh {
		e.fuzzy.Learn(name, result)
	}

	return result, true
}

func emergencyFallback(cause string) model.ClassificationResult {
	return model.ClassificationResult{
		Classification:   model.Individual,
		Confidence:       model.ConfidenceForceWebSearch,
		Reasoning:        "Emergency fallback after internal error: " + cause,
		ProcessingTier:   model.TierFailed,
		ProcessingMethod: MethodEmergency,
	}.WithKeywordExclusion(model.EmptyKeywordExclusion())
}

func prefixed(prefix string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = prefix + v
	}
	return out
}
