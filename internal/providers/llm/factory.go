package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/pkg/log"
)

// NewProvider creates the appropriate AIProvider based on configuration.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.LLMProvider).
		Msg("starting llm provider")

	switch cfg.LLMProvider {
	case "openrouter":
		orCfg := config.NewOpenRouterConfig(ctx)
		return NewOpenRouter(orCfg.APIKey, orCfg.Model), nil
	case "ollama":
		olCfg := config.NewOllamaConfig(ctx)
		return NewOllama(olCfg.BaseURL, olCfg.APIKey, olCfg.Model), nil
	case "custom":
		cuCfg := config.NewCustomOpenAIConfig(ctx)
		return NewCustomOpenAI(cuCfg.BaseURL, cuCfg.APIKey, cuCfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}
}
