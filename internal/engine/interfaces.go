package engine

import (
	"context"

	"github.com/Veraticus/payee-classifier/internal/keyword"
	"github.com/Veraticus/payee-classifier/internal/llm"
	"github.com/Veraticus/payee-classifier/internal/model"
)

// AIClassifier is the remote classifier consulted when every local tier
// defers. Both llm.Classifier and llm.ConsensusClassifier satisfy it.
type AIClassifier interface {
	Classify(ctx context.Context, name string) (llm.Result, error)
}

// ItemClassifier classifies one name against a pinned keyword snapshot.
type ItemClassifier interface {
	Snapshot(ctx context.Context) (*keyword.List, error)
	ClassifyWithKeywords(ctx context.Context, name string, list *keyword.List) model.ClassificationResult
}
