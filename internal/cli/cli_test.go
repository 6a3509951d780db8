package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/payee-classifier/internal/engine"
	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/storage"
)

func TestProgressReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewProgressReporter(&out, 3)

	events := make(chan engine.ProgressEvent, 4)
	go r.Consume(events)

	events <- engine.ProgressEvent{Completed: 1, Total: 3}
	events <- engine.ProgressEvent{Completed: 3, Total: 3, CacheHit: true}
	events <- engine.ProgressEvent{Completed: 2, Total: 3}
	close(events)
	r.Wait()

	assert.Equal(t, 3, r.Completed())
	assert.Equal(t, 1, r.CacheHits())
	assert.Contains(t, out.String(), "Classifying payees")
}

func TestFormatResult(t *testing.T) {
	out := FormatResult("Acme LLC", model.ClassificationResult{
		Classification:   model.Business,
		Confidence:       95,
		ProcessingTier:   model.TierRuleBased,
		ProcessingMethod: "Rule-based",
		Reasoning:        "legal suffix",
		SICCode:          "5999",
		MatchingRules:    []string{"Legal suffix: LLC"},
	})

	assert.Contains(t, out, "Acme LLC:")
	assert.Contains(t, out, "Business")
	assert.Contains(t, out, "(95%)")
	assert.Contains(t, out, "SIC:       5999")
	assert.Contains(t, out, "Legal suffix: LLC")
}

func TestFormatBatchSummary(t *testing.T) {
	out := FormatBatchSummary(&model.BatchProcessingResult{
		BatchID:      "batch-1",
		Results:      make([]model.PayeeClassification, 3),
		SuccessCount: 3,
		EnhancedStats: model.EnhancedStats{
			ByClassification:  map[model.Classification]int{model.Business: 2, model.Individual: 1},
			ByTier:            map[model.ProcessingTier]int{model.TierRuleBased: 2, model.TierExcluded: 1},
			ExcludedCount:     1,
			AverageConfidence: 88.5,
		},
		ProcessingTime: 1500 * time.Millisecond,
	})

	assert.Contains(t, out, "Classification Complete")
	assert.Contains(t, out, "3 (3 ok, 0 failed)")
	assert.Contains(t, out, "avg 88.50")
	assert.Contains(t, out, "Rule-Based:")
	assert.Contains(t, out, "batch-1")
}

func TestFormatBatchList(t *testing.T) {
	assert.Contains(t, FormatBatchList(nil), "No stored batches")

	out := FormatBatchList([]storage.BatchSummary{
		{BatchID: "batch-1", Total: 10, Businesses: 6, Individuals: 4, LastClassified: time.Now()},
	})
	assert.Contains(t, out, "batch-1")
	assert.Contains(t, out, "Individual")
}

func TestFormatConfidence(t *testing.T) {
	assert.Equal(t, "95%", FormatConfidence(95))
	assert.Contains(t, FormatConfidence(60), "60%")
}
