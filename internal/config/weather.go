package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/skyline/pkg/log"
)

type WeatherConfig struct {
	ForecastURL  string        `env:"WEATHER_FORECAST_URL" envDefault:"https://api.open-meteo.com/v1/forecast"`
	GeocodingURL string        `env:"WEATHER_GEOCODING_URL" envDefault:"https://geocoding-api.open-meteo.com/v1/search"`
	Timeout      time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`
}

func NewWeatherConfig(ctx context.Context) *WeatherConfig {
	c := &WeatherConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Weather config")
	}
	return c
}
