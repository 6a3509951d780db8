// Package server exposes the classification pipeline as a JSON HTTP API.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Veraticus/payee-classifier/internal/engine"
	"github.com/Veraticus/payee-classifier/internal/export"
	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/service"
)

// Classifier classifies a single name.
type Classifier interface {
	Classify(ctx context.Context, name string) model.ClassificationResult
}

// BatchRunner classifies an uploaded file's names.
type BatchRunner interface {
	Process(ctx context.Context, names []string, rows []model.Row, progress chan<- engine.ProgressEvent) (*model.BatchProcessingResult, error)
}

// Store is the persistence the API reads and edits.
type Store interface {
	service.ClassificationStore
	service.KeywordStore
}

// Invalidator drops cached keyword lists after edits.
type Invalidator interface {
	Invalidate()
}

// Config wires the server's collaborators. Keywords is optional.
type Config struct {
	Classifier Classifier
	Batch      BatchRunner
	Exporter   *export.Exporter
	Store      Store
	Keywords   Invalidator
	Logger     *slog.Logger
	Addr       string
	// APIKey, when set, is required in the X-API-Key header of /api requests.
	APIKey string
	// TLS, when set, serves HTTPS.
	TLS *tls.Config
	// MaxBatchSize caps the names accepted per request.
	MaxBatchSize int
}

// DefaultMaxBatchSize bounds request batches unless configured.
const DefaultMaxBatchSize = 10000

// Server is the HTTP API.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	logger     *slog.Logger
	cfg        Config
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Classifier == nil || cfg.Batch == nil || cfg.Exporter == nil || cfg.Store == nil {
		return nil, errors.New("server requires a classifier, batch runner, exporter and store")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		// Batches with AI calls run long.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    cfg.TLS,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	s.router.Use(requestLogging(s.logger))
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	// API routes sit on the root router so method mismatches answer 405.
	api := func(path string, h http.HandlerFunc, methods ...string) {
		s.router.Handle("/api"+path, s.protect(h)).Methods(methods...)
	}
	api("/classify", s.classify, http.MethodPost)
	api("/batch", s.batch, http.MethodPost)
	api("/export", s.export, http.MethodPost)
	api("/classifications", s.listClassifications, http.MethodGet)
	api("/keywords", s.listKeywords, http.MethodGet)
	api("/keywords", s.addKeyword, http.MethodPost)
	api("/keywords/{keyword}", s.removeKeyword, http.MethodDelete)
}

func (s *Server) protect(h http.Handler) http.Handler {
	if s.cfg.APIKey == "" {
		return h
	}
	return apiKeyAuth(s.cfg.APIKey)(h)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr, "tls", s.httpServer.TLSConfig != nil)
		var err error
		if s.httpServer.TLSConfig != nil {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
