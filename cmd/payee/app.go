package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/payee-classifier/internal/config"
	"github.com/Veraticus/payee-classifier/internal/engine"
	"github.com/Veraticus/payee-classifier/internal/keyword"
	"github.com/Veraticus/payee-classifier/internal/llm"
	"github.com/Veraticus/payee-classifier/internal/storage"
)

// envKeyReplacer maps nested keys such as llm.api_key to PAYEE_LLM_API_KEY.
var envKeyReplacer = strings.NewReplacer(".", "_")

// app holds the collaborators shared by the commands.
type app struct {
	cfg      *config.Config
	store    *storage.Store
	keywords *keyword.Cache
	engine   *engine.DecisionEngine
	logger   *slog.Logger
}

// openStore opens and migrates the configured database.
func openStore(ctx context.Context, cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newApp wires storage, the keyword cache and the decision engine.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slog.Default()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keywords := keyword.NewCache(store, cfg.Keywords.CacheTTL, logger)

	var ai llm.PayeeClassifier
	switch {
	case cfg.AIEnabled():
		ai, err = llm.New(cfg.LLM, logger)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create AI classifier: %w", err)
		}
		logger.Debug("AI classification enabled",
			"provider", cfg.LLM.Provider,
			"consensus_calls", cfg.LLM.ConsensusCalls)
	case !cfg.Offline:
		logger.Warn("No API key configured for the AI tier, classifying offline",
			"provider", cfg.LLM.Provider)
	}

	var aiClassifier engine.AIClassifier
	if ai != nil {
		aiClassifier = ai
	}

	decision, err := engine.NewDecisionEngine(keywords, aiClassifier, engine.Config{
		Logger:  logger,
		Offline: cfg.Offline,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		keywords: keywords,
		engine:   decision,
		logger:   logger,
	}, nil
}

func (a *app) batchProcessor(persist bool) *engine.BatchProcessor {
	cfg := engine.BatchConfig{
		Logger:      a.logger,
		Concurrency: a.cfg.Batch.Concurrency,
	}
	if persist {
		cfg.Store = a.store
	}
	return engine.NewBatchProcessor(a.engine, cfg)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("Failed to close database", "error", err)
	}
}
