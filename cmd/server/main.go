// Command main is the entry point for the GardenCircle API server.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gardencircle/internal/assistant"
	"gardencircle/internal/bootstrap"
	"gardencircle/internal/config"
	"gardencircle/internal/news"
	"gardencircle/internal/observability"
	"gardencircle/internal/server"
	"gardencircle/internal/service"
	"gardencircle/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "gardencircle-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	}

	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{RunMigrations: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if store, err := storage.NewMinioStore(ctx, cfg); err != nil {
		slog.Warn("image uploads disabled, object store unreachable", "error", err)
	} else {
		srv.SetImageStore(store)
	}

	var replier service.Replier
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create assistant client: %v", err)
		}
		replier = gemini
	} else {
		slog.Warn("GEMINI_API_KEY not set, assistant runs with canned replies")
		replier = assistant.NewFallbackReplier()
	}
	srv.SetAssistant(replier)

	if sources, err := news.LoadSources(cfg.NewsFeedsFile); err != nil {
		slog.Warn("news refresh disabled, feeds file unreadable", "error", err)
	} else {
		srv.SetSyndicator(news.NewFetcher(sources, cfg.NewsFetchLimit), 0)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if shutdownTracing != nil {
			if err := shutdownTracing(shutdownCtx); err != nil {
				slog.Error("tracing shutdown error", "error", err)
			}
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
