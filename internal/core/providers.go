package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// Forecaster is the weather collaborator. A nil snapshot means "no data";
// callers recover locally and never surface the raw error to users.
type Forecaster interface {
	Forecast(ctx context.Context, city string, daysAhead int) (*WeatherSnapshot, error)
}
