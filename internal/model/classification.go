// Package model defines the core domain models used throughout the application.
package model

import "time"

// Classification is the verdict for a payee name.
type Classification string

// Classification constants.
const (
	Business   Classification = "Business"
	Individual Classification = "Individual"
)

// Confidence thresholds that gate escalation between tiers.
const (
	ConfidenceHigh           = 95
	ConfidenceMedium         = 85
	ConfidenceReviewRequired = 75
	ConfidenceEscalateToAI   = 65
	ConfidenceForceWebSearch = 50
)

// ProcessingTier records which stage of the cascade produced a result.
type ProcessingTier string

// Processing tier constants.
const (
	TierExcluded   ProcessingTier = "Excluded"
	TierRuleBased  ProcessingTier = "Rule-Based"
	TierNLPBased   ProcessingTier = "NLP-Based"
	TierAIPowered  ProcessingTier = "AI-Powered"
	TierAIAssisted ProcessingTier = "AI-Assisted"
	TierFailed     ProcessingTier = "Failed"
)

// ClassificationResult is the immutable outcome of classifying one name.
type ClassificationResult struct {
	KeywordExclusion *KeywordExclusionResult `json:"keywordExclusion,omitempty"`
	SimilarityScores *SimilarityScores       `json:"similarityScores,omitempty"`
	Classification   Classification          `json:"classification"`
	Reasoning        string                  `json:"reasoning"`
	ProcessingTier   ProcessingTier          `json:"processingTier"`
	ProcessingMethod string                  `json:"processingMethod"`
	SICCode          string                  `json:"sicCode,omitempty"`
	SICDescription   string                  `json:"sicDescription,omitempty"`
	MatchingRules    []string                `json:"matchingRules,omitempty"`
	Confidence       int                     `json:"confidence"`
}

// WithKeywordExclusion returns a copy of r carrying the given exclusion outcome.
func (r ClassificationResult) WithKeywordExclusion(k KeywordExclusionResult) ClassificationResult {
	r.KeywordExclusion = &k
	return r
}

// KeywordExclusionResult reports whether a name matched any exclusion keyword.
type KeywordExclusionResult struct {
	Reasoning       string   `json:"reasoning"`
	MatchedKeywords []string `json:"matchedKeywords"`
	Confidence      int      `json:"confidence"`
	IsExcluded      bool     `json:"isExcluded"`
}

// NewKeywordExclusion builds a result whose IsExcluded flag always agrees with
// the matched keyword list.
func NewKeywordExclusion(matched []string, confidence int, reasoning string) KeywordExclusionResult {
	if matched == nil {
		matched = []string{}
	}
	if len(matched) == 0 {
		confidence = 0
	}
	return KeywordExclusionResult{
		IsExcluded:      len(matched) > 0,
		MatchedKeywords: matched,
		Confidence:      ClampConfidence(confidence),
		Reasoning:       reasoning,
	}
}

// EmptyKeywordExclusion is the exclusion result attached to failed records.
func EmptyKeywordExclusion() KeywordExclusionResult {
	return NewKeywordExclusion(nil, 0, "No keyword exclusion applied")
}

// SimilarityScores holds the individual string metrics as percentages.
type SimilarityScores struct {
	Levenshtein float64 `json:"levenshtein"`
	Jaro        float64 `json:"jaro"`
	JaroWinkler float64 `json:"jaroWinkler"`
	Dice        float64 `json:"dice"`
	TokenSort   float64 `json:"tokenSort"`
	Combined    float64 `json:"combined"`
}

// PayeeClassification is the persisted unit: one result for one input row.
type PayeeClassification struct {
	Timestamp    time.Time            `json:"timestamp"`
	OriginalData *Row                 `json:"originalData,omitempty"`
	ID           string               `json:"id"`
	PayeeName    string               `json:"payeeName"`
	BatchID      string               `json:"batchId,omitempty"`
	Result       ClassificationResult `json:"result"`
	RowIndex     int                  `json:"rowIndex"`
}

// ClampConfidence saturates a confidence value to the 0-100 range.
func ClampConfidence(c int) int {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	default:
		return c
	}
}
