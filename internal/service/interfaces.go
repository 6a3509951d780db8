// Package service defines the interfaces shared between the classification
// pipeline and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/payee-classifier/internal/model"
)

// ClassificationStore persists classification results.
type ClassificationStore interface {
	// Save upserts results keyed by (payee name, row index, batch ID).
	Save(ctx context.Context, results []model.PayeeClassification, batchID string) error
	LoadAll(ctx context.Context) ([]model.PayeeClassification, error)
	LoadBatch(ctx context.Context, batchID string) ([]model.PayeeClassification, error)
}

// KeywordStore holds user-supplied exclusion keywords.
type KeywordStore interface {
	LoadCustomKeywords(ctx context.Context) ([]string, error)
	AddCustomKeyword(ctx context.Context, keyword string) error
	RemoveCustomKeyword(ctx context.Context, keyword string) error
}

// SICInfo is a persisted industry code for a payee.
type SICInfo struct {
	Code        string
	Description string
}

// SICLookup finds previously stored SIC codes by payee name.
type SICLookup interface {
	LookupSIC(ctx context.Context, names []string) (map[string]SICInfo, error)
}

// Storage is the full persistence contract.
type Storage interface {
	ClassificationStore
	KeywordStore
	SICLookup

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
