package chat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/skyline/internal/core"
)

const systemPrompt = `You are Skyline, a travel and weather assistant.
Ground every factual claim in the data provided to you. When you do not
have data, say so and use hedged language instead of inventing numbers.
Structure longer answers with a short summary line, then "Plan:" with
numbered steps, then "Recommendation:" with bulleted suggestions, and end
with a "Sources:" line naming the data you used.`

const strictSystemPrompt = `Strict mode: your previous draft contained
claims that could not be verified. State only facts present in the
provided data, hedge everything else, and avoid exact prices, exact
times and absolute words.`

type promptBuilder struct {
	turns  int
	budget int
}

func newPromptBuilder(turns, budget int) *promptBuilder {
	if turns <= 0 {
		turns = 6
	}
	return &promptBuilder{turns: turns, budget: budget}
}

// Build assembles the generator input: system prompt, accumulated memory
// context, the external snapshot when present, and the most recent turns of
// history. History is trimmed oldest-first to stay inside the token budget.
func (b *promptBuilder) Build(conv *core.Conversation, ext *core.ExternalContext, strict bool) []core.Message {
	msgs := []core.Message{{Role: core.RoleSystem, Content: systemPrompt}}

	if strict {
		msgs = append(msgs, core.Message{Role: core.RoleSystem, Content: strictSystemPrompt})
	}
	if memo := memoryContext(conv); memo != "" {
		msgs = append(msgs, core.Message{Role: core.RoleSystem, Content: memo})
	}
	if ext != nil && ext.Kind == core.ContextKindWeather && ext.Weather != nil {
		msgs = append(msgs, core.Message{Role: core.RoleSystem, Content: weatherContext(ext.Weather)})
	}

	history := conv.LastMessages(b.turns * 2)
	if b.budget > 0 {
		fixed := 0
		for _, m := range msgs {
			fixed += countTokens(m.Content)
		}
		history = trimToBudget(history, b.budget-fixed)
	}
	return append(msgs, history...)
}

func memoryContext(conv *core.Conversation) string {
	var parts []string
	if conv.Preferences.Budget != "" {
		parts = append(parts, "budget: "+conv.Preferences.Budget)
	}
	if len(conv.Preferences.Interests) > 0 {
		parts = append(parts, "interests: "+strings.Join(conv.Preferences.Interests, ", "))
	}
	if len(conv.Preferences.Dietary) > 0 {
		parts = append(parts, "dietary: "+strings.Join(conv.Preferences.Dietary, ", "))
	}
	if len(conv.Locations) > 0 {
		parts = append(parts, "places discussed: "+strings.Join(conv.Locations, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "What you know about this user so far. " + strings.Join(parts, "; ") + "."
}

func weatherContext(w *core.WeatherSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Verified forecast for %s on %s: %.0f-%.0f°C (avg %.0f°C), %s, %d%% chance of rain, humidity %d%%, wind %.0f km/h.",
		w.Location, w.Date, w.TempMin, w.TempMax, w.TempAvg,
		strings.Join(w.Conditions, ", "), w.RainChance, w.Humidity, w.WindSpeed)
	if w.Note != "" {
		fmt.Fprintf(&sb, " Note: %s.", w.Note)
	}
	sb.WriteString(" Use these numbers; do not invent others.")
	return sb.String()
}

func trimToBudget(history []core.Message, budget int) []core.Message {
	if budget <= 0 {
		if len(history) > 2 {
			return history[len(history)-2:]
		}
		return history
	}
	total := 0
	for _, m := range history {
		total += countTokens(m.Content)
	}
	for total > budget && len(history) > 2 {
		total -= countTokens(history[0].Content)
		history = history[1:]
	}
	return history
}

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// countTokens uses the cl100k_base encoding, falling back to a rough
// 4-characters-per-token estimate when the encoding cannot be loaded.
func countTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return len(text) / 4
	}
	return len(encoding.Encode(text, nil, nil))
}
