package core

import "time"

const (
	SkylineName          = "Skyline"
	SkylineUserAgent     = "Skyline-Assistant/0.1"
	SkylineRepositoryURL = "https://github.com/sandevgo/skyline"
	SkylineVersion       = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation. Immutable once appended to history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, CreatedAt: time.Now()}
}

// ExternalContext is a discriminated snapshot of factual data attached to a
// turn. Kind selects which payload is set; weather is the only kind today.
type ExternalContext struct {
	Kind    string           `json:"kind"`
	Weather *WeatherSnapshot `json:"weather,omitempty"`
}

const ContextKindWeather = "weather"

func NewWeatherContext(w *WeatherSnapshot) *ExternalContext {
	return &ExternalContext{Kind: ContextKindWeather, Weather: w}
}

// WeatherSnapshot is the day summary returned by the weather collaborator.
type WeatherSnapshot struct {
	Location   string   `json:"location"`
	Date       string   `json:"date"`
	TempMin    float64  `json:"temp_min"`
	TempMax    float64  `json:"temp_max"`
	TempAvg    float64  `json:"temp_avg"`
	Conditions []string `json:"conditions"`
	RainChance int      `json:"rain_probability"`
	Humidity   int      `json:"humidity"`
	WindSpeed  float64  `json:"wind_speed"`
	// Note is set when the exact date was unavailable and the nearest
	// available day was substituted.
	Note string `json:"note,omitempty"`
}

// UserPreferences accumulates over a conversation. The budget tier is
// replaced by later messages; tag sets are unioned and never shrink.
type UserPreferences struct {
	Budget    string   `json:"budget,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Dietary   []string `json:"dietary,omitempty"`
}

func (p UserPreferences) IsEmpty() bool {
	return p.Budget == "" && len(p.Interests) == 0 && len(p.Dietary) == 0
}

func (p *UserPreferences) Merge(in UserPreferences) {
	if in.Budget != "" {
		p.Budget = in.Budget
	}
	p.Interests = unionTags(p.Interests, in.Interests)
	p.Dietary = unionTags(p.Dietary, in.Dietary)
}

func unionTags(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, t := range base {
		seen[t] = struct{}{}
	}
	for _, t := range extra {
		if _, ok := seen[t]; !ok {
			base = append(base, t)
			seen[t] = struct{}{}
		}
	}
	return base
}

// TripPlan is a draft itinerary sketched during a conversation.
type TripPlan struct {
	Destination string    `json:"destination"`
	DaysAhead   int       `json:"days_ahead"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidationResult is the outcome of scoring generated text against known
// facts. Confidence stays in [0,65]: only weather claims are strongly
// verifiable, everything else contributes small bounded increments.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Text       string   `json:"text"`
	Issues     []string `json:"issues,omitempty"`
	Confidence int      `json:"confidence"`
	Fixed      bool     `json:"fixed"`
}

// DayRef is a resolved temporal reference from a user message.
type DayRef struct {
	TargetDay string `json:"target_day"`
	DaysAhead int    `json:"days_ahead"`
}
