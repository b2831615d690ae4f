package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/skyline/pkg/log"
)

type AppConfig struct {
	// Allow selecting the provider
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openrouter"`

	// History mined when resolving contextual references ("there", "what
	// about thursday?") back to a city.
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"10"`

	// Turns of history handed to the generator.
	PromptTurns int `env:"PROMPT_TURNS" envDefault:"6"`

	// Token ceiling for an assembled prompt.
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"3000"`

	// Forecast horizon; requests beyond it are answered without calling
	// the weather provider.
	MaxForecastDays int `env:"MAX_FORECAST_DAYS" envDefault:"5"`

	// Upper bound on conversations kept in memory before LRU eviction.
	MaxConversations int `env:"MAX_CONVERSATIONS" envDefault:"1024"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
