package extract

import (
	"regexp"
	"strings"

	"github.com/sandevgo/skyline/internal/core"
)

const (
	BudgetLow      = "budget"
	BudgetModerate = "moderate"
	BudgetLuxury   = "luxury"
)

// Budget tiers are checked in this order; the first tier with a matching
// keyword wins for the current message.
var budgetTiers = []struct {
	tier string
	re   *regexp.Regexp
}{
	{BudgetLow, tagPattern("cheap", "budget", "affordable", "inexpensive", "low cost", "economical")},
	{BudgetModerate, tagPattern("moderate", "mid-range", "midrange", "reasonable")},
	{BudgetLuxury, tagPattern("luxury", "luxurious", "high-end", "upscale", "fancy", "premium", "five star", "5-star")},
}

var interestTags = map[string]*regexp.Regexp{
	"museums":   tagPattern("museum", "museums"),
	"art":       tagPattern("art", "gallery", "galleries"),
	"food":      tagPattern("food", "foodie", "restaurant", "restaurants", "cuisine"),
	"outdoors":  tagPattern("hike", "hiking", "outdoor", "outdoors", "nature", "trail", "trails"),
	"beach":     tagPattern("beach", "beaches"),
	"history":   tagPattern("history", "historic", "historical"),
	"shopping":  tagPattern("shopping", "boutique", "boutiques"),
	"nightlife": tagPattern("nightlife", "bar", "bars", "club", "clubs"),
	"family":    tagPattern("family", "kid", "kids", "children"),
}

var dietaryTags = map[string]*regexp.Regexp{
	"vegetarian":  tagPattern("vegetarian"),
	"vegan":       tagPattern("vegan"),
	"gluten-free": tagPattern("gluten-free", "gluten free"),
	"halal":       tagPattern("halal"),
	"kosher":      tagPattern("kosher"),
}

func tagPattern(words ...string) *regexp.Regexp {
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(escaped, "|") + `)\b`)
}

// Preferences extracts the preference signals in one message. The result is
// merged into conversation memory by the caller; tags only ever accumulate.
func (e *Extractor) Preferences(text string) core.UserPreferences {
	lower := strings.ToLower(text)
	prefs := core.UserPreferences{}

	for _, bt := range budgetTiers {
		if bt.re.MatchString(lower) {
			prefs.Budget = bt.tier
			break
		}
	}
	for tag, re := range interestTags {
		if re.MatchString(lower) {
			prefs.Interests = append(prefs.Interests, tag)
		}
	}
	for tag, re := range dietaryTags {
		if re.MatchString(lower) {
			prefs.Dietary = append(prefs.Dietary, tag)
		}
	}
	return prefs
}
