// Package weather fetches day forecasts from an Open-Meteo style API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/pkg/log"
)

// MaxDaysAhead is the servable forecast horizon. Requests beyond it must be
// rejected before this client is called; the client enforces it again.
const MaxDaysAhead = 5

type Client struct {
	client       *http.Client
	forecastURL  string
	geocodingURL string
}

func NewClient(cfg *config.WeatherConfig) *Client {
	return &Client{
		client:       &http.Client{Timeout: cfg.Timeout},
		forecastURL:  cfg.ForecastURL,
		geocodingURL: cfg.GeocodingURL,
	}
}

// Forecast resolves the city to coordinates and returns the summary for the
// requested day. When the exact date is missing from the provider's window
// the nearest available day is substituted and noted on the snapshot.
func (c *Client) Forecast(ctx context.Context, city string, daysAhead int) (*core.WeatherSnapshot, error) {
	if daysAhead < 0 || daysAhead > MaxDaysAhead {
		return nil, fmt.Errorf("days ahead %d outside servable range [0,%d]", daysAhead, MaxDaysAhead)
	}

	loc, err := c.geocode(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", city, err)
	}

	daily, err := c.fetchDaily(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", city, err)
	}

	target := time.Now().AddDate(0, 0, daysAhead).Format("2006-01-02")
	idx, substituted := pickDay(daily.Time, target)
	if idx < 0 {
		return nil, fmt.Errorf("no forecast days returned for %q", city)
	}
	// The daily block is parallel arrays; a truncated sibling array means a
	// malformed payload, not a shorter window.
	if err := daily.checkLengths(idx); err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", city, err)
	}

	snap := &core.WeatherSnapshot{
		Location:   loc.Name,
		Date:       daily.Time[idx],
		TempMin:    daily.TempMin[idx],
		TempMax:    daily.TempMax[idx],
		TempAvg:    (daily.TempMin[idx] + daily.TempMax[idx]) / 2,
		Conditions: describeCode(daily.WeatherCode[idx]),
		RainChance: daily.RainChance[idx],
		Humidity:   daily.Humidity[idx],
		WindSpeed:  daily.WindSpeed[idx],
	}
	if substituted {
		snap.Note = "used nearest available date"
		log.FromCtx(ctx).Debug().
			Str("requested", target).
			Str("served", snap.Date).
			Msg("substituted nearest forecast date")
	}
	return snap, nil
}

type place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *Client) geocode(ctx context.Context, city string) (*place, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")

	var result struct {
		Results []place `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodingURL+"?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, fmt.Errorf("city not found")
	}
	return &result.Results[0], nil
}

type dailyForecast struct {
	Time        []string  `json:"time"`
	TempMax     []float64 `json:"temperature_2m_max"`
	TempMin     []float64 `json:"temperature_2m_min"`
	RainChance  []int     `json:"precipitation_probability_max"`
	WeatherCode []int     `json:"weathercode"`
	WindSpeed   []float64 `json:"windspeed_10m_max"`
	Humidity    []int     `json:"relative_humidity_2m_mean"`
}

// checkLengths verifies every sibling array reaches idx.
func (d *dailyForecast) checkLengths(idx int) error {
	lengths := map[string]int{
		"temperature_2m_max":            len(d.TempMax),
		"temperature_2m_min":            len(d.TempMin),
		"precipitation_probability_max": len(d.RainChance),
		"weathercode":                   len(d.WeatherCode),
		"windspeed_10m_max":             len(d.WindSpeed),
		"relative_humidity_2m_mean":     len(d.Humidity),
	}
	for field, n := range lengths {
		if idx >= n {
			return fmt.Errorf("daily field %s has %d entries, need %d", field, n, idx+1)
		}
	}
	return nil
}

func (c *Client) fetchDaily(ctx context.Context, lat, lon float64) (*dailyForecast, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weathercode,windspeed_10m_max,relative_humidity_2m_mean")
	q.Set("forecast_days", strconv.Itoa(MaxDaysAhead+1))
	q.Set("timezone", "auto")

	var result struct {
		Daily dailyForecast `json:"daily"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	if len(result.Daily.Time) == 0 {
		return nil, fmt.Errorf("empty daily block")
	}
	return &result.Daily, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", core.SkylineUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// pickDay returns the index of target within days, or the closest day when
// the exact date is absent. The second return reports substitution.
func pickDay(days []string, target string) (int, bool) {
	for i, d := range days {
		if d == target {
			return i, false
		}
	}
	if len(days) == 0 {
		return -1, false
	}
	// Dates are sorted ascending; the last entry is the nearest when the
	// target lies past the window, the first when it lies before.
	if target > days[len(days)-1] {
		return len(days) - 1, true
	}
	return 0, true
}
