package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/clarify"
	"github.com/sandevgo/skyline/internal/service/extract"
	"github.com/sandevgo/skyline/internal/service/memory"
)

type fakeAI struct {
	reply   string
	calls   int
	prompts [][]core.Message
}

func (f *fakeAI) Chat(_ context.Context, history []core.Message) (core.Message, error) {
	f.calls++
	f.prompts = append(f.prompts, history)
	return core.NewMessage(core.RoleAssistant, f.reply), nil
}

type fakeForecaster struct {
	snap    *core.WeatherSnapshot
	err     error
	calls   int
	gotCity string
	gotDays int
}

func (f *fakeForecaster) Forecast(_ context.Context, city string, daysAhead int) (*core.WeatherSnapshot, error) {
	f.calls++
	f.gotCity = city
	f.gotDays = daysAhead
	return f.snap, f.err
}

// sunday pins weekday math: "saturday" is then six days out.
var sunday = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestOrchestrator(ai *fakeAI, fc *fakeForecaster) (*Orchestrator, *memory.Store) {
	cfg := &config.AppConfig{
		HistoryWindow:     10,
		PromptTurns:       6,
		PromptTokenBudget: 3000,
		MaxForecastDays:   5,
		MaxConversations:  64,
	}
	store, err := memory.NewStore(cfg.MaxConversations)
	if err != nil {
		panic(err)
	}
	extractor := extract.New(store, cfg.HistoryWindow)
	gate := clarify.New(extractor)
	o := New(cfg, ai, fc, store, extractor, gate, NewKeywordClassifier())
	o.now = func() time.Time { return sunday }
	return o, store
}

func TestTurnWeatherQuery(t *testing.T) {
	ai := &fakeAI{reply: "Expect mild weather, likely around 14°C with a chance of rain."}
	fc := &fakeForecaster{snap: &core.WeatherSnapshot{
		Location: "Paris", Date: "2026-03-02",
		TempMin: 11, TempMax: 16, TempAvg: 14,
		Conditions: []string{"light rain"}, RainChance: 55, Humidity: 70, WindSpeed: 12,
	}}
	o, _ := newTestOrchestrator(ai, fc)

	res, err := o.Turn(context.Background(), "c1", "What's the weather in Paris tomorrow?")
	if err != nil {
		t.Fatal(err)
	}
	if fc.calls != 1 || fc.gotCity != "Paris" || fc.gotDays != 1 {
		t.Fatalf("forecaster called %d times with (%s, %d), want once with (Paris, 1)", fc.calls, fc.gotCity, fc.gotDays)
	}
	if res.External == nil || res.External.Kind != core.ContextKindWeather {
		t.Fatalf("external context = %+v, want weather kind", res.External)
	}
	if res.Debug.CityDetected != "Paris" || res.Debug.DaysAhead != 1 {
		t.Errorf("debug = %+v", res.Debug)
	}

	// The generator must have seen the forecast facts.
	found := false
	for _, m := range ai.prompts[0] {
		if m.Role == core.RoleSystem && strings.Contains(m.Content, "Verified forecast for Paris") {
			found = true
		}
	}
	if !found {
		t.Error("prompt carries no forecast context")
	}
}

func TestTurnNoExternalCallForGeneralChat(t *testing.T) {
	ai := &fakeAI{reply: "Rome has layers of history, from the Forum to the Vatican."}
	fc := &fakeForecaster{}
	o, store := newTestOrchestrator(ai, fc)

	res, err := o.Turn(context.Background(), "c1", "Tell me about the history of Rome")
	if err != nil {
		t.Fatal(err)
	}
	if fc.calls != 0 {
		t.Errorf("forecaster called %d times for a non-weather turn", fc.calls)
	}
	if res.External != nil {
		t.Errorf("external = %+v, want nil", res.External)
	}

	conv, _ := store.Get("c1")
	if len(conv.Messages) != 2 {
		t.Fatalf("history has %d messages, want user+assistant", len(conv.Messages))
	}
	if conv.Locations[0] != "Rome" {
		t.Errorf("locations = %v", conv.Locations)
	}
}

func TestTurnBeyondForecastHorizon(t *testing.T) {
	ai := &fakeAI{reply: "unused"}
	fc := &fakeForecaster{}
	o, _ := newTestOrchestrator(ai, fc)

	res, err := o.Turn(context.Background(), "c1", "What's the weather in Paris on saturday?")
	if err != nil {
		t.Fatal(err)
	}
	if fc.calls != 0 {
		t.Error("forecaster must not be called beyond the horizon")
	}
	if ai.calls != 0 {
		t.Error("generator must not be called beyond the horizon")
	}
	if res.Reply != beyondRangeReply {
		t.Errorf("reply = %q", res.Reply)
	}
	if res.Debug.DaysAhead != 6 {
		t.Errorf("days ahead = %d, want 6", res.Debug.DaysAhead)
	}
}

func TestTurnClarifiesMissingCity(t *testing.T) {
	ai := &fakeAI{reply: "unused"}
	fc := &fakeForecaster{}
	o, store := newTestOrchestrator(ai, fc)

	res, err := o.Turn(context.Background(), "c1", "what's the weather like?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != clarify.AskCityReply {
		t.Errorf("reply = %q, want city clarification", res.Reply)
	}
	if ai.calls != 0 || fc.calls != 0 {
		t.Error("no collaborator may run on a clarification turn")
	}

	// Both sides of the exchange still land in history.
	conv, _ := store.Get("c1")
	if len(conv.Messages) != 2 {
		t.Fatalf("history has %d messages", len(conv.Messages))
	}
}

func TestTurnWeatherProviderDown(t *testing.T) {
	ai := &fakeAI{reply: "unused"}
	fc := &fakeForecaster{err: errors.New("connection refused")}
	o, _ := newTestOrchestrator(ai, fc)

	res, err := o.Turn(context.Background(), "c1", "Will it rain in London tomorrow?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply != weatherDownReply {
		t.Errorf("reply = %q", res.Reply)
	}
	if ai.calls != 0 {
		t.Error("generator must not run without the promised data")
	}
}

func TestTurnContextualFollowup(t *testing.T) {
	ai := &fakeAI{reply: "Thursday in Vienna looks calm, probably dry."}
	fc := &fakeForecaster{snap: &core.WeatherSnapshot{Location: "Vienna", RainChance: 10}}
	o, _ := newTestOrchestrator(ai, fc)

	if _, err := o.Turn(context.Background(), "c1", "What's the weather in Vienna today?"); err != nil {
		t.Fatal(err)
	}
	res, err := o.Turn(context.Background(), "c1", "what about thursday?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Debug.CityDetected != "Vienna" {
		t.Errorf("city = %q, want Vienna from history", res.Debug.CityDetected)
	}
	if fc.gotDays != 4 {
		t.Errorf("days ahead = %d, want 4 (sunday to thursday)", fc.gotDays)
	}
}

func TestTurnRecordsTripPlanForComplexQuery(t *testing.T) {
	ai := &fakeAI{reply: "A weekend in Madrid could look like this.\n\nPlan:\n1. Prado in the morning\n2. Retiro park after lunch"}
	fc := &fakeForecaster{snap: &core.WeatherSnapshot{Location: "Madrid", TempMin: 15, TempMax: 22, RainChance: 5}}
	o, store := newTestOrchestrator(ai, fc)

	if _, err := o.Turn(context.Background(), "c1", "Plan me a sunny weekend trip to Madrid"); err != nil {
		t.Fatal(err)
	}
	conv, _ := store.Get("c1")
	if len(conv.Plans) != 1 || conv.Plans[0].Destination != "Madrid" {
		t.Fatalf("plans = %+v", conv.Plans)
	}
}
