// Package web exposes the analysis pipeline over HTTP: synchronous
// analyze, the asynchronous start/check pair, and the xlsx export.
package web

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/cache"
	"github.com/mzackyaulya/sentikom/internal/canonical"
	"github.com/mzackyaulya/sentikom/internal/fetch"
	"github.com/mzackyaulya/sentikom/internal/models"
	"github.com/mzackyaulya/sentikom/internal/sentiment"
)

// RunSource drives the asynchronous scraping workflow on the primary
// provider.
type RunSource interface {
	StartRun(ctx context.Context, videoURL string) (string, error)
	GetRunStatus(ctx context.Context, runID string) (models.ApifyRunStatus, error)
	FetchDataset(ctx context.Context, datasetID string) ([]map[string]any, error)
}

// Summarizer is the optional AI recap; nil disables the feature.
type Summarizer interface {
	Summarize(ctx context.Context, res models.AnalysisResult) (string, error)
}

type Server struct {
	app        *fiber.App
	cfg        *config.Config
	resolver   *canonical.Resolver
	orch       *fetch.Orchestrator
	pipeline   *sentiment.Pipeline
	runs       RunSource
	store      cache.Store
	summarizer Summarizer
}

func NewServer(
	cfg *config.Config,
	resolver *canonical.Resolver,
	orch *fetch.Orchestrator,
	pipeline *sentiment.Pipeline,
	runs RunSource,
	store cache.Store,
	summarizer Summarizer,
) *Server {
	s := &Server{
		app:        fiber.New(fiber.Config{DisableStartupMessage: true}),
		cfg:        cfg,
		resolver:   resolver,
		orch:       orch,
		pipeline:   pipeline,
		runs:       runs,
		store:      store,
		summarizer: summarizer,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())

	s.app.Post("/analyze", s.handleAnalyze)
	s.app.Post("/start", s.handleStart)
	s.app.Get("/check/:runId", s.handleCheck)
	s.app.Get("/export", s.handleExport)
	s.app.Get("/healthz", s.handleHealth)
}

// App exposes the fiber app for serving and tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
