package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/orchestrator"
	"server/internal/poller"
	"server/internal/providers/genai"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	registry := prometheus.NewRegistry()
	metrics := infra.NewMetrics(registry)

	client, err := genai.NewClient(genai.Options{
		APIKey:             cfg.GeminiAPIKey,
		BaseURL:            cfg.GeminiBaseURL,
		AnalysisModel:      cfg.AnalysisModel,
		ImageEditModel:     cfg.ImageEditModel,
		ImageModel:         cfg.ImageModel,
		VideoModel:         cfg.VideoModel,
		AdvancedVideoModel: cfg.AdvancedVideoModel,
		Logger:             logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}
	if !client.Configured() {
		logger.Warn().Msg("GEMINI_API_KEY is not set, generation requests will be rejected")
	}

	jobPoller, err := poller.New(cfg.PollInterval, cfg.PollMaxAttempts, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid poller configuration")
	}

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare artifact storage")
	}

	gen := orchestrator.New(client, jobPoller, logger, metrics)
	app := handlers.NewApp(logger, gen, store)
	router := httpapi.NewRouter(app, cfg, registry)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
