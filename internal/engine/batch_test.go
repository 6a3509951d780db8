package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/payee-classifier/internal/keyword"
	"github.com/Veraticus/payee-classifier/internal/model"
)

type fakeStore struct {
	err     error
	saved   []model.PayeeClassification
	batchID string
	calls   int
	mu      sync.Mutex
}

func (f *fakeStore) Save(_ context.Context, results []model.PayeeClassification, batchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.saved = results
	f.batchID = batchID
	return f.err
}

func (f *fakeStore) LoadAll(context.Context) ([]model.PayeeClassification, error) {
	return f.saved, nil
}

func (f *fakeStore) LoadBatch(context.Context, string) ([]model.PayeeClassification, error) {
	return f.saved, nil
}

// hookedClassifier runs hook before delegating to the decision engine.
type hookedClassifier struct {
	*DecisionEngine
	hook func(name string)
}

func (h hookedClassifier) ClassifyWithKeywords(ctx context.Context, name string, list *keyword.List) model.ClassificationResult {
	h.hook(name)
	return h.DecisionEngine.ClassifyWithKeywords(ctx, name, list)
}

func rowsFor(names []string) []model.Row {
	rows := make([]model.Row, len(names))
	for i, name := range names {
		rows[i] = model.NewRow([]string{"Vendor", "foo"}, []string{name, fmt.Sprint(i)})
	}
	return rows
}

func foo(row *model.Row) string {
	v, _ := row.Get("foo")
	return v
}

func TestBatchProcessor_Alignment(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(e, BatchConfig{})

	names := []string{"Bank of America", "John Smith", "bank of america", "", "Missoula Valley Storage"}
	rows := rowsFor(names)

	result, err := p.Process(context.Background(), names, rows, nil)
	require.NoError(t, err)
	require.Len(t, result.Results, len(names))

	for i, rec := range result.Results {
		assert.Equal(t, i, rec.RowIndex)
		assert.Equal(t, names[i], rec.PayeeName)
		assert.Equal(t, result.BatchID, rec.BatchID)
		assert.NotEmpty(t, rec.ID)
		require.NotNil(t, rec.OriginalData)
		assert.Equal(t, fmt.Sprint(i), foo(rec.OriginalData))
		assert.NotNil(t, rec.Result.KeywordExclusion)
	}

	assert.Equal(t, rows, result.OriginalFileData)
	assert.Equal(t, 1, result.EnhancedStats.CacheHits)
	assert.Equal(t, result.Results[0].Result, result.Results[2].Result, "cache hit reuses the result verbatim")
	assert.Equal(t, len(names), result.SuccessCount)
	assert.Zero(t, result.FailureCount)
	assert.Equal(t, "invalid input", result.Results[3].Result.Reasoning)
}

func TestBatchProcessor_RowCountMismatch(t *testing.T) {
	calls := 0
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(hookedClassifier{DecisionEngine: e, hook: func(string) { calls++ }}, BatchConfig{})

	_, err := p.Process(context.Background(), []string{"a", "b"}, rowsFor([]string{"a"}), nil)
	require.ErrorIs(t, err, ErrRowCountMismatch)
	assert.Zero(t, calls)
}

func TestBatchProcessor_EmptyKeywordList(t *testing.T) {
	e := newTestEngine(t, []string{}, nil)
	p := NewBatchProcessor(e, BatchConfig{})

	_, err := p.Process(context.Background(), []string{"a"}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyKeywordList)
}

func TestBatchProcessor_FailureIsolation(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(hookedClassifier{DecisionEngine: e, hook: func(name string) {
		if name == "boom" {
			panic("bad payee")
		}
	}}, BatchConfig{})

	names := []string{"John Smith", "boom", "Bank of America"}
	result, err := p.Process(context.Background(), names, nil, nil)
	require.NoError(t, err)

	failed := result.Results[1]
	assert.Equal(t, 1, failed.RowIndex)
	assert.Equal(t, model.Individual, failed.Result.Classification)
	assert.Equal(t, FailureConfidence, failed.Result.Confidence)
	assert.Equal(t, model.TierFailed, failed.Result.ProcessingTier)
	require.NotNil(t, failed.Result.KeywordExclusion)
	assert.False(t, failed.Result.KeywordExclusion.IsExcluded)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, model.Business, result.Results[2].Result.Classification)
	assert.Nil(t, result.OriginalFileData)
}

// brokenListClassifier hands the engine an uninitialized keyword list for
// one name, which makes the engine recover into its emergency result.
type brokenListClassifier struct {
	*DecisionEngine
	broken string
}

func (b brokenListClassifier) ClassifyWithKeywords(ctx context.Context, name string, list *keyword.List) model.ClassificationResult {
	if name == b.broken {
		list = &keyword.List{}
	}
	return b.DecisionEngine.ClassifyWithKeywords(ctx, name, list)
}

func TestBatchProcessor_EngineRecoveryCountsAsFailure(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(brokenListClassifier{DecisionEngine: e, broken: "BOOM"}, BatchConfig{})

	names := []string{"John Smith", "BOOM", "Bank of America", "BOOM"}
	result, err := p.Process(context.Background(), names, nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Results, len(names))

	for _, i := range []int{1, 3} {
		rec := result.Results[i]
		assert.Equal(t, i, rec.RowIndex)
		assert.Equal(t, model.TierFailed, rec.Result.ProcessingTier)
		assert.Equal(t, MethodEmergency, rec.Result.ProcessingMethod)
	}

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.FailureCount)
	assert.Zero(t, result.EnhancedStats.CacheHits, "failed results are not cached")
}

func TestBatchProcessor_Cancellation(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		e := newTestEngine(t, nil, nil)
		p := NewBatchProcessor(e, BatchConfig{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Process(ctx, []string{"a", "b"}, nil, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("between items", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var seen []string
		e := newTestEngine(t, nil, nil)
		p := NewBatchProcessor(hookedClassifier{DecisionEngine: e, hook: func(name string) {
			seen = append(seen, name)
			if name == "stop" {
				cancel()
			}
		}}, BatchConfig{})

		_, err := p.Process(ctx, []string{"first", "stop", "never"}, nil, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"first", "stop"}, seen)
	})
}

func TestBatchProcessor_Concurrent(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(e, BatchConfig{Concurrency: 8})

	names := make([]string, 200)
	for i := range names {
		names[i] = fmt.Sprintf("Payee %d", i%50)
	}
	rows := rowsFor(names)

	progress := make(chan ProgressEvent, len(names))
	result, err := p.Process(context.Background(), names, rows, progress)
	require.NoError(t, err)
	close(progress)

	for i, rec := range result.Results {
		assert.Equal(t, i, rec.RowIndex)
		assert.Equal(t, names[i], rec.PayeeName)
		assert.Equal(t, fmt.Sprint(i), foo(rec.OriginalData))
	}

	events := 0
	maxCompleted := 0
	for ev := range progress {
		events++
		maxCompleted = max(maxCompleted, ev.Completed)
		assert.Equal(t, len(names), ev.Total)
		assert.Equal(t, names[ev.Index], ev.PayeeName)
	}
	assert.Equal(t, len(names), events)
	assert.Equal(t, len(names), maxCompleted)
}

func TestBatchProcessor_Persists(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(e, BatchConfig{Store: store})

	result, err := p.Process(context.Background(), []string{"John Smith", "Bank of America"}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, result.BatchID, store.batchID)
	assert.Len(t, store.saved, 2)
}

func TestBatchProcessor_StoreFailureDoesNotFailBatch(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(e, BatchConfig{Store: store})

	result, err := p.Process(context.Background(), []string{"John Smith"}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, 1, store.calls)
}

func TestBatchProcessor_Scenario(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	p := NewBatchProcessor(e, BatchConfig{})

	names := []string{"VA Hospital", "Valley Storage LLC", "Jane Doe", "AT&T Wireless"}
	result, err := p.Process(context.Background(), names, rowsFor(names), nil)
	require.NoError(t, err)

	va := result.Results[0].Result
	assert.Equal(t, model.TierExcluded, va.ProcessingTier)
	assert.Contains(t, va.KeywordExclusion.MatchedKeywords, "VA")

	valley := result.Results[1].Result
	assert.NotContains(t, valley.KeywordExclusion.MatchedKeywords, "VA")
	assert.Equal(t, model.Business, valley.Classification)

	assert.Equal(t, model.Individual, result.Results[2].Result.Classification)

	att := result.Results[3].Result
	assert.Equal(t, model.TierExcluded, att.ProcessingTier)
	assert.Contains(t, att.KeywordExclusion.MatchedKeywords, "AT&T")

	assert.Equal(t, 2, result.EnhancedStats.ExcludedCount)
}

func TestComputeStats(t *testing.T) {
	results := []model.PayeeClassification{
		{Result: model.ClassificationResult{Classification: model.Business, Confidence: 95, ProcessingTier: model.TierExcluded}.WithKeywordExclusion(model.NewKeywordExclusion([]string{"BANK"}, 100, "x"))},
		{Result: model.ClassificationResult{Classification: model.Individual, Confidence: 80, ProcessingTier: model.TierRuleBased}},
		{Result: model.ClassificationResult{Classification: model.Individual, Confidence: 30, ProcessingTier: model.TierFailed}},
	}

	stats := computeStats(results, []bool{false, true, false}, time.Second)
	assert.Equal(t, 1, stats.ByClassification[model.Business])
	assert.Equal(t, 2, stats.ByClassification[model.Individual])
	assert.Equal(t, 1, stats.ByTier[model.TierFailed])
	assert.Equal(t, 1, stats.HighConfidence)
	assert.Equal(t, 1, stats.MediumConfidence)
	assert.Equal(t, 1, stats.LowConfidence)
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, 1, stats.ExcludedCount)
	assert.InDelta(t, 68.33, stats.AverageConfidence, 0.001)
	assert.Equal(t, time.Second, stats.ElapsedTime)

	empty := computeStats(nil, nil, 0)
	assert.Zero(t, empty.AverageConfidence)
}
