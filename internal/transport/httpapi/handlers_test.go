package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/chat"
	"github.com/sandevgo/skyline/internal/service/clarify"
	"github.com/sandevgo/skyline/internal/service/extract"
	"github.com/sandevgo/skyline/internal/service/memory"
)

type stubAI struct{ reply string }

func (s *stubAI) Chat(context.Context, []core.Message) (core.Message, error) {
	return core.NewMessage(core.RoleAssistant, s.reply), nil
}

type stubForecaster struct{}

func (stubForecaster) Forecast(_ context.Context, city string, _ int) (*core.WeatherSnapshot, error) {
	return &core.WeatherSnapshot{
		Location: city, Date: time.Now().Format("2006-01-02"),
		TempMin: 10, TempMax: 18, TempAvg: 14,
		Conditions: []string{"partly cloudy"}, RainChance: 20, Humidity: 60, WindSpeed: 10,
	}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		HistoryWindow: 10, PromptTurns: 6, PromptTokenBudget: 3000,
		MaxForecastDays: 5, MaxConversations: 64,
	}
	store, err := memory.NewStore(cfg.MaxConversations)
	if err != nil {
		t.Fatal(err)
	}
	extractor := extract.New(store, cfg.HistoryWindow)
	orchestrator := chat.New(
		cfg,
		&stubAI{reply: "Mild and dry, probably around 14°C."},
		stubForecaster{},
		store,
		extractor,
		clarify.New(extractor),
		chat.NewKeywordClassifier(),
	)

	return NewServer(context.Background(), &config.ServerConfig{
		Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second,
	}, orchestrator, store)
}

func doChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	return w
}

func TestChatMissingMessage(t *testing.T) {
	s := newTestServer(t)
	w := doChat(t, s, `{"conversation_id": "abc"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestChatAssignsConversationID(t *testing.T) {
	s := newTestServer(t)
	w := doChat(t, s, `{"message": "What's the weather in Paris tomorrow?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ConversationID == "" {
		t.Error("server must mint a conversation id")
	}
	if resp.Reply == "" || resp.ReplyHTML == "" {
		t.Errorf("reply missing: %+v", resp)
	}
	if resp.ExternalContext == nil || resp.ExternalContext.Kind != core.ContextKindWeather {
		t.Errorf("external context = %+v", resp.ExternalContext)
	}
	if resp.Debug.CityDetected != "Paris" || resp.Debug.DaysAhead != 1 {
		t.Errorf("debug = %+v", resp.Debug)
	}
}

func TestChatKeepsConversationID(t *testing.T) {
	s := newTestServer(t)
	w := doChat(t, s, `{"conversation_id": "trip-1", "message": "What's the weather in Rome today?"}`)
	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ConversationID != "trip-1" {
		t.Errorf("conversation id = %q", resp.ConversationID)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/nope/stats", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown conversation: status = %d, want 404", w.Code)
	}

	doChat(t, s, `{"conversation_id": "trip-1", "message": "I'm vegan and heading to Lisbon, what's the weather today?"}`)

	req = httptest.NewRequest(http.MethodGet, "/api/conversations/trip-1/stats", nil)
	w = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var stats statsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.MessageCount != 2 {
		t.Errorf("message count = %d, want 2", stats.MessageCount)
	}
	if stats.LocationCount != 1 {
		t.Errorf("location count = %d, want 1", stats.LocationCount)
	}
	if !stats.HasPreferences {
		t.Error("vegan preference should be recorded")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
