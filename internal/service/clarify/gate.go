// Package clarify decides whether a turn can be answered without more user
// input.
package clarify

import (
	"regexp"
	"strings"

	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/extract"
)

const (
	AskCityReply   = "Which city would you like the forecast for?"
	AskPlaceReply  = "Could you tell me which place you mean?"
	AskDetailReply = "Could you give me a bit more detail about what you'd like to know?"
)

var weatherIntentRe = regexp.MustCompile(`(?i)\b(weather|forecast|temperature|rain|raining|rainy|sunny|snow|snowing|umbrella|hot|cold|warm|windy|humid)\b`)

type Gate struct {
	extractor *extract.Extractor
}

func New(extractor *extract.Extractor) *Gate {
	return &Gate{extractor: extractor}
}

// NeedsClarification returns the literal reply to send immediately, or ""
// to proceed. Rules run in order; the first match wins.
func (g *Gate) NeedsClarification(message string, history []core.Message) string {
	city := g.extractor.City(message, history)

	// 1. "what about thursday?" with no city anywhere in reach.
	if extract.IsDayFollowup(message) && city == "" {
		return AskCityReply
	}

	// 2. Pronoun reference that nothing in history resolves.
	if extract.IsContextual(message) && city == "" {
		if weatherIntentRe.MatchString(message) {
			return AskCityReply
		}
		return AskPlaceReply
	}

	// 3. Weather question with no pronoun and still no city.
	if weatherIntentRe.MatchString(message) && city == "" {
		return AskCityReply
	}

	// 4. Very short non-question message: ask for detail, unless it is
	// the answer to our own "which city" question.
	words := strings.Fields(message)
	if len(words) > 0 && len(words) <= 2 &&
		!strings.Contains(message, "?") &&
		!extract.MentionsDay(message) {
		if !lastAssistantAskedCity(history) {
			return AskDetailReply
		}
	}

	return ""
}

func lastAssistantAskedCity(history []core.Message) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != core.RoleAssistant {
			continue
		}
		return strings.Contains(strings.ToLower(history[i].Content), "which city")
	}
	return false
}
