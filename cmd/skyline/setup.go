package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/providers/llm"
	"github.com/sandevgo/skyline/internal/providers/weather"
	"github.com/sandevgo/skyline/internal/service/chat"
	"github.com/sandevgo/skyline/internal/service/clarify"
	"github.com/sandevgo/skyline/internal/service/extract"
	"github.com/sandevgo/skyline/internal/service/memory"
	"github.com/sandevgo/skyline/internal/transport/httpapi"
	"github.com/sandevgo/skyline/pkg/log"
	"github.com/sandevgo/skyline/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	serverCfg := config.NewServerConfig(ctx)
	weatherCfg := config.NewWeatherConfig(ctx)

	// 2. Conversation store
	store, err := memory.NewStore(appCfg.MaxConversations)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize conversation store")
	}

	// 3. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Context services
	extractor := extract.New(store, appCfg.HistoryWindow)
	gate := clarify.New(extractor)

	// 5. Turn orchestrator
	orchestrator := chat.New(
		appCfg,
		llm.NewResilient(aiProvider),
		weather.NewClient(weatherCfg),
		store,
		extractor,
		gate,
		chat.NewKeywordClassifier(),
	)

	// 6. Transport
	services = append(services, httpapi.NewServer(ctx, serverCfg, orchestrator, store))

	return services
}

// initEnv loads a .env from the working directory when one exists.
func initEnv(ctx context.Context) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to load .env file")
	}
	return nil
}
