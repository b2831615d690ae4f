package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandevgo/skyline/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureServer(t *testing.T, geocodeHits int) *Client {
	t.Helper()

	days := make([]string, 6)
	for i := range days {
		days[i] = time.Now().AddDate(0, 0, i).Format("2006-01-02")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("name"), "geocode request must carry a name")
		results := map[string]any{"results": []map[string]any{}}
		if geocodeHits > 0 {
			results["results"] = []map[string]any{
				{"name": "Kraków", "latitude": 50.06, "longitude": 19.94},
			}
		}
		json.NewEncoder(w).Encode(results)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("latitude"), "forecast request must carry coordinates")
		json.NewEncoder(w).Encode(map[string]any{
			"daily": map[string]any{
				"time":                          days,
				"temperature_2m_max":            []float64{10, 11, 12, 13, 14, 15},
				"temperature_2m_min":            []float64{2, 3, 4, 5, 6, 7},
				"precipitation_probability_max": []int{80, 70, 60, 50, 40, 30},
				"weathercode":                   []int{61, 3, 2, 1, 0, 0},
				"windspeed_10m_max":             []float64{20, 18, 16, 14, 12, 10},
				"relative_humidity_2m_mean":     []int{85, 80, 75, 70, 65, 60},
			},
		})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return NewClient(&config.WeatherConfig{
		ForecastURL:  ts.URL + "/forecast",
		GeocodingURL: ts.URL + "/geocode",
		Timeout:      2 * time.Second,
	})
}

func TestForecast(t *testing.T) {
	client := newFixtureServer(t, 1)

	snap, err := client.Forecast(context.Background(), "Krakow", 1)
	require.NoError(t, err)

	assert.Equal(t, "Kraków", snap.Location, "location should be the geocoder's canonical name")
	assert.Equal(t, 3.0, snap.TempMin)
	assert.Equal(t, 11.0, snap.TempMax)
	assert.Equal(t, 7.0, snap.TempAvg)
	assert.Equal(t, 70, snap.RainChance)
	assert.NotEmpty(t, snap.Conditions)
	assert.Empty(t, snap.Note, "no substitution expected inside the window")
}

func TestForecastRejectsOutOfRange(t *testing.T) {
	client := newFixtureServer(t, 1)

	for _, days := range []int{-1, MaxDaysAhead + 1} {
		_, err := client.Forecast(context.Background(), "Krakow", days)
		assert.Error(t, err, "daysAhead=%d", days)
	}
}

func TestForecastUnknownCity(t *testing.T) {
	client := newFixtureServer(t, 0)

	_, err := client.Forecast(context.Background(), "Nowhereville", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city not found")
}

func TestForecastTruncatedDailyArrays(t *testing.T) {
	days := make([]string, 6)
	for i := range days {
		days[i] = time.Now().AddDate(0, 0, i).Format("2006-01-02")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []map[string]any{
			{"name": "Kraków", "latitude": 50.06, "longitude": 19.94},
		}})
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		// Sibling arrays shorter than the time axis.
		json.NewEncoder(w).Encode(map[string]any{
			"daily": map[string]any{
				"time":                          days,
				"temperature_2m_max":            []float64{10},
				"temperature_2m_min":            []float64{2},
				"precipitation_probability_max": []int{80},
				"weathercode":                   []int{61},
				"windspeed_10m_max":             []float64{20},
				"relative_humidity_2m_mean":     []int{85},
			},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := NewClient(&config.WeatherConfig{
		ForecastURL:  ts.URL + "/forecast",
		GeocodingURL: ts.URL + "/geocode",
		Timeout:      2 * time.Second,
	})

	// Day 1 is past the truncated arrays; must error, not panic.
	_, err := client.Forecast(context.Background(), "Krakow", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entries")
}

func TestForecastServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	client := NewClient(&config.WeatherConfig{
		ForecastURL:  ts.URL + "/forecast",
		GeocodingURL: ts.URL + "/geocode",
		Timeout:      2 * time.Second,
	})
	_, err := client.Forecast(context.Background(), "Krakow", 0)
	require.Error(t, err)
}

func TestPickDay(t *testing.T) {
	days := []string{"2026-03-01", "2026-03-02", "2026-03-03"}

	tests := []struct {
		name       string
		target     string
		wantIdx    int
		wantSubbed bool
	}{
		{"exact match", "2026-03-02", 1, false},
		{"past the window", "2026-03-09", 2, true},
		{"before the window", "2026-02-20", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, subbed := pickDay(days, tt.target)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantSubbed, subbed)
		})
	}

	idx, _ := pickDay(nil, "2026-03-01")
	assert.Equal(t, -1, idx)
}
