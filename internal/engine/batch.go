package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/payee-classifier/internal/keyword"
	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
	"github.com/Veraticus/payee-classifier/internal/service"
)

// Values of the record that replaces a name whose classification failed.
const (
	FailureConfidence = 30
	MethodItemFailure = "Batch item failure"
)

// ProgressEvent reports one finished name.
type ProgressEvent struct {
	PayeeName string
	Result    model.ClassificationResult
	Index     int
	Completed int
	Total     int
	CacheHit  bool
}

// BatchConfig holds configuration options for the batch processor.
type BatchConfig struct {
	// Store persists finished batches. Optional.
	Store  service.ClassificationStore
	Logger *slog.Logger
	// Concurrency bounds the names in flight. Values below 2 run sequentially.
	Concurrency int
}

// BatchProcessor applies an ItemClassifier to every name of an uploaded file
// while keeping result i aligned with input row i.
type BatchProcessor struct {
	classifier  ItemClassifier
	store       service.ClassificationStore
	logger      *slog.Logger
	newID       func() string
	now         func() time.Time
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(classifier ItemClassifier, cfg BatchConfig) *BatchProcessor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		classifier:  classifier,
		store:       cfg.Store,
		logger:      logger,
		concurrency: max(1, cfg.Concurrency),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// runCache memoizes results by normalized name for one Process call.
type runCache struct {
	results map[string]model.ClassificationResult
	mu      sync.Mutex
}

func (c *runCache) get(key string) (model.ClassificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	return r, ok
}

func (c *runCache) put(key string, r model.ClassificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = r
}

type batchRun struct {
	list     *keyword.List
	cache    *runCache
	progress chan<- ProgressEvent
	names    []string
	rows     []model.Row
	results  []model.PayeeClassification
	filled   []bool
	hits     []bool
	failed   []bool
	batchID  string
	done     atomic.Int64
}

// Process classifies names in order. When rows is non-nil it must have one
// row per name. Progress events are sent on progress if it is non-nil; the
// channel is never closed by Process. A cancelled context aborts the run
// between names and returns ctx.Err().
func (p *BatchProcessor) Process(ctx context.Context, names []string, rows []model.Row, progress chan<- ProgressEvent) (*model.BatchProcessingResult, error) {
	if rows != nil && len(rows) != len(names) {
		return nil, fmt.Errorf("%w: %d rows for %d names", ErrRowCountMismatch, len(rows), len(names))
	}

	list, err := p.classifier.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	start := p.now()
	run := &batchRun{
		list:     list,
		cache:    &runCache{results: make(map[string]model.ClassificationResult)},
		progress: progress,
		names:    names,
		rows:     rows,
		results:  make([]model.PayeeClassification, len(names)),
		filled:   make([]bool, len(names)),
		hits:     make([]bool, len(names)),
		failed:   make([]bool, len(names)),
		batchID:  p.newID(),
	}

	p.logger.Info("Starting batch",
		"batch_id", run.batchID,
		"names", len(names),
		"keywords", list.Len(),
		"concurrency", p.concurrency)

	if p.concurrency <= 1 {
		err = p.runSequential(ctx, run)
	} else {
		err = p.runConcurrent(ctx, run)
	}
	if err != nil {
		p.logger.Warn("Batch cancelled", "batch_id", run.batchID, "completed", run.done.Load(), "error", err)
		return nil, err
	}

	if err := validateAlignment(run.results, run.filled); err != nil {
		return nil, err
	}

	elapsed := p.now().Sub(start)
	stats := computeStats(run.results, run.hits, elapsed)

	failures := 0
	for _, f := range run.failed {
		if f {
			failures++
		}
	}

	result := &model.BatchProcessingResult{
		BatchID:          run.batchID,
		Results:          run.results,
		OriginalFileData: rows,
		EnhancedStats:    stats,
		SuccessCount:     len(names) - failures,
		FailureCount:     failures,
		ProcessingTime:   elapsed,
	}

	p.persist(ctx, result)

	p.logger.Info("Batch complete",
		"batch_id", run.batchID,
		"names", len(names),
		"failures", failures,
		"cache_hits", stats.CacheHits,
		"elapsed", elapsed)

	return result, nil
}

func (p *BatchProcessor) runSequential(ctx context.Context, run *batchRun) error {
	for i := range run.names {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.processItem(ctx, run, i)
	}
	return nil
}

func (p *BatchProcessor) runConcurrent(ctx context.Context, run *batchRun) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i := range run.names {
		i := i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.processItem(gctx, run, i)
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}

// processItem writes slot i exactly once.
func (p *BatchProcessor) processItem(ctx context.Context, run *batchRun, i int) {
	name := run.names[i]
	key := normalize.Name(name)

	result, hit := model.ClassificationResult{}, false
	if key != "" {
		result, hit = run.cache.get(key)
	}

	if !hit {
		var err error
		result, err = p.classifyItem(ctx, name, run.list)
		switch {
		case err != nil:
			p.logger.Error("Failed to classify payee",
				"payee", name,
				"index", i,
				"error", err)
			result = failureResult(err)
			run.failed[i] = true
		case result.ProcessingTier == model.TierFailed:
			// The engine recovered internally; count it and let later
			// occurrences retry.
			p.logger.Error("Payee classification fell back to emergency result",
				"payee", name,
				"index", i,
				"reason", result.Reasoning)
			run.failed[i] = true
		case key != "":
			run.cache.put(key, result)
		}
	}

	record := model.PayeeClassification{
		ID:        p.newID(),
		PayeeName: name,
		BatchID:   run.batchID,
		Result:    result,
		Timestamp: p.now(),
		RowIndex:  i,
	}
	if run.rows != nil {
		row := run.rows[i].Clone()
		record.OriginalData = &row
	}

	run.results[i] = record
	run.filled[i] = true
	run.hits[i] = hit

	completed := int(run.done.Add(1))
	if run.progress != nil {
		event := ProgressEvent{
			PayeeName: name,
			Result:    result,
			Index:     i,
			Completed: completed,
			Total:     len(run.names),
			CacheHit:  hit,
		}
		select {
		case run.progress <- event:
		case <-ctx.Done():
		}
	}
}

func (p *BatchProcessor) classifyItem(ctx context.Context, name string, list *keyword.List) (result model.ClassificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("Recovered classification panic", "payee", name, "stack", string(debug.Stack()))
			err = fmt.Errorf("classification panicked: %v", r)
		}
	}()
	return p.classifier.ClassifyWithKeywords(ctx, name, list), nil
}

func failureResult(err error) model.ClassificationResult {
	return model.ClassificationResult{
		Classification:   model.Individual,
		Confidence:       FailureConfidence,
		Reasoning:        "Classification failed: " + err.Error(),
		ProcessingTier:   model.TierFailed,
		ProcessingMethod: MethodItemFailure,
	}.WithKeywordExclusion(model.EmptyKeywordExclusion())
}

func validateAlignment(results []model.PayeeClassification, filled []bool) error {
	for i := range results {
		if !filled[i] {
			return fmt.Errorf("%w: result %d missing", ErrIntegrity, i)
		}
		if results[i].RowIndex != i {
			return fmt.Errorf("%w: result %d has row index %d", ErrIntegrity, i, results[i].RowIndex)
		}
	}
	return nil
}

func (p *BatchProcessor) persist(ctx context.Context, result *model.BatchProcessingResult) {
	if p.store == nil || len(result.Results) == 0 {
		return
	}
	if err := p.store.Save(ctx, result.Results, result.BatchID); err != nil {
		p.logger.Error("Failed to persist batch results",
			"batch_id", result.BatchID,
			"error", err)
	}
}
