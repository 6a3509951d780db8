package testutil

import (
	"time"

	"github.com/Veraticus/payee-classifier/internal/model"
)

// DefaultTimestamp is the classification time of built records.
var DefaultTimestamp = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

// RecordBuilder builds a stored classification with sensible defaults: an
// Individual rule-based result at the review confidence in batch "test".
type RecordBuilder struct {
	record model.PayeeClassification
}

// NewRecord starts a record for name.
func NewRecord(name string) *RecordBuilder {
	return &RecordBuilder{record: model.PayeeClassification{
		ID:        name + "-id",
		PayeeName: name,
		BatchID:   "test",
		Timestamp: DefaultTimestamp,
		Result: model.ClassificationResult{
			Classification:   model.Individual,
			Confidence:       model.ConfidenceReviewRequired,
			Reasoning:        "fixture",
			ProcessingTier:   model.TierRuleBased,
			ProcessingMethod: "Fixture",
			MatchingRules:    []string{},
			KeywordExclusion: &model.KeywordExclusionResult{MatchedKeywords: []string{}},
		},
	}}
}

// Business marks the record as a Business at confidence.
func (b *RecordBuilder) Business(confidence int) *RecordBuilder {
	b.record.Result.Classification = model.Business
	b.record.Result.Confidence = confidence
	return b
}

// Individual marks the record as an Individual at confidence.
func (b *RecordBuilder) Individual(confidence int) *RecordBuilder {
	b.record.Result.Classification = model.Individual
	b.record.Result.Confidence = confidence
	return b
}

// WithSIC sets the industry code.
func (b *RecordBuilder) WithSIC(code, description string) *RecordBuilder {
	b.record.Result.SICCode = code
	b.record.Result.SICDescription = description
	return b
}

// AtRow sets the row index.
func (b *RecordBuilder) AtRow(index int) *RecordBuilder {
	b.record.RowIndex = index
	return b
}

// InBatch sets the batch ID.
func (b *RecordBuilder) InBatch(batchID string) *RecordBuilder {
	b.record.BatchID = batchID
	return b
}

// At sets the classification time.
func (b *RecordBuilder) At(ts time.Time) *RecordBuilder {
	b.record.Timestamp = ts
	return b
}

// WithOriginal attaches the uploaded row.
func (b *RecordBuilder) WithOriginal(headers, values []string) *RecordBuilder {
	row := model.NewRow(headers, values)
	b.record.OriginalData = &row
	return b
}

// Build returns the record.
func (b *RecordBuilder) Build() model.PayeeClassification {
	return b.record
}

// Batch builds one record per name in a single batch, rows numbered from 0.
func Batch(batchID string, names ...string) []model.PayeeClassification {
	records := make([]model.PayeeClassification, len(names))
	for i, name := range names {
		records[i] = NewRecord(name).InBatch(batchID).AtRow(i).Build()
	}
	return records
}
