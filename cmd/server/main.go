package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/cache"
	"github.com/mzackyaulya/sentikom/internal/canonical"
	"github.com/mzackyaulya/sentikom/internal/clients"
	"github.com/mzackyaulya/sentikom/internal/fetch"
	"github.com/mzackyaulya/sentikom/internal/logging"
	"github.com/mzackyaulya/sentikom/internal/sentiment"
	"github.com/mzackyaulya/sentikom/internal/summary"
	"github.com/mzackyaulya/sentikom/internal/web"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := buildStore(cfg)

	apify := clients.NewApifyClient(cfg)

	var fallback fetch.Source
	if tiktok, err := clients.NewTikTokClient(cfg); err != nil {
		slog.Warn("[Main] Web API fallback disabled", slog.String("error", err.Error()))
	} else {
		fallback = tiktok
	}

	orch := fetch.NewOrchestrator(apify, fallback, cfg.Fetch.Target, cfg.Fetch.MinAcceptable)
	pipeline := sentiment.NewPipeline(
		sentiment.NewLexicon(cfg),
		sentiment.NewRemoteClassifier(clients.NewHuggingFaceClient(cfg), cfg),
	)

	var summarizer web.Summarizer
	if s := summary.New(cfg); s != nil {
		summarizer = s
	}

	resolver := canonical.NewResolver(10*time.Second, clients.BROWSER_USER_AGENT)
	server := web.NewServer(cfg, resolver, orch, pipeline, apify, store, summarizer)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		slog.Info("[Main] Shutting down")
		if err := server.Shutdown(); err != nil {
			slog.Error("[Main] Shutdown failed", slog.String("error", err.Error()))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("[Main] Server listening", slog.String("addr", addr))
	if err := server.Listen(addr); err != nil {
		slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildStore prefers Valkey and falls back to the in-process store when no
// address is configured or the connection fails.
func buildStore(cfg *config.Config) cache.Store {
	if cfg.Valkey.Address == "" {
		slog.Info("[Main] Using in-memory result cache")
		return cache.NewMemoryStore()
	}

	store, err := cache.NewValkeyStore(cfg.Valkey.Address, cfg.Valkey.Password, cfg.Valkey.TLS)
	if err != nil {
		slog.Warn("[Main] Valkey unavailable, using in-memory result cache",
			slog.String("error", err.Error()))
		return cache.NewMemoryStore()
	}

	slog.Info("[Main] Connected to Valkey", slog.String("addr", cfg.Valkey.Address))
	return store
}
