package extract

import (
	"regexp"
	"strings"
)

// Curated well-known cities, matched on word boundaries before any
// positional pattern runs.
var knownCities = []string{
	"Amsterdam", "Athens", "Bangkok", "Barcelona", "Beijing", "Berlin",
	"Boston", "Budapest", "Buenos Aires", "Cairo", "Chicago", "Copenhagen",
	"Dubai", "Dublin", "Edinburgh", "Florence", "Hong Kong", "Istanbul",
	"Kyoto", "Lisbon", "London", "Los Angeles", "Madrid", "Melbourne",
	"Mexico City", "Miami", "Milan", "Montreal", "Moscow", "Mumbai",
	"Munich", "New York", "Oslo", "Paris", "Prague", "Rio de Janeiro",
	"Rome", "San Francisco", "Seattle", "Seoul", "Singapore", "Stockholm",
	"Sydney", "Tokyo", "Toronto", "Vancouver", "Venice", "Vienna", "Warsaw",
	"Zurich",
}

var knownCityRe = func() *regexp.Regexp {
	escaped := make([]string, 0, len(knownCities))
	for _, c := range knownCities {
		escaped = append(escaped, regexp.QuoteMeta(strings.ToLower(c)))
	}
	return regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)
}()

var canonicalCity = func() map[string]string {
	m := make(map[string]string, len(knownCities))
	for _, c := range knownCities {
		m[strings.ToLower(c)] = c
	}
	return m
}()

func matchKnownCity(text string) string {
	if m := knownCityRe.FindString(strings.ToLower(text)); m != "" {
		return canonicalCity[m]
	}
	return ""
}

// Pronoun references that point back at something said earlier. A message
// matching one of these with no known city is resolved from history, never
// from its own wording.
var contextualRe = regexp.MustCompile(`(?i)\b(there|that place|this city|that city|over there|it)\b`)

func IsContextual(text string) bool {
	return contextualRe.MatchString(text)
}

// "what about thursday?" / "and tomorrow?" style follow-ups: a temporal
// word with no city of its own. The bare "and <day>" form counts too.
var dayFollowupRe = regexp.MustCompile(`(?i)\b(?:(?:what|how)\s+about|and)\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow|the\s+weekend)\b`)

func IsDayFollowup(text string) bool {
	return dayFollowupRe.MatchString(text)
}

// Markers of the assistant's own structured output. Text carrying one of
// these is log/system material, not a user statement about a place.
var systemOutputMarkers = []string{
	"recommendation:",
	"sources:",
	"plan:",
	"[debug",
	"[system",
	"forecast summary",
}

func looksLikeSystemOutput(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range systemOutputMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Positional patterns, tried in order once the curated list and contextual
// checks come up empty.
var positionalPatterns = []*regexp.Regexp{
	// "weather in X", "weather at X", "forecast for X"
	regexp.MustCompile(`(?i)\b(?:weather|forecast)\s+(?:in|at|for)\s+([a-zà-ÿ][a-zà-ÿ.' -]{1,40})`),
	// "X weather"
	regexp.MustCompile(`\b([A-Z][a-zà-ÿ]+(?:\s[A-Z][a-zà-ÿ]+)?)\s+[Ww]eather\b`),
	// "in X" directly before a temporal word
	regexp.MustCompile(`\b(?:in|at|In|At)\s+([A-Z][a-zà-ÿ]+(?:\s[A-Z][a-zà-ÿ]+)*)\s+(?:[Tt]oday|[Tt]omorrow|[Tt]onight|[Tt]his|[Nn]ext|[Oo]n)\b`),
	// generic "in/at/for Capitalized Phrase"
	regexp.MustCompile(`\b(?:in|at|for|In|At|For)\s+([A-Z][a-zà-ÿ]+(?:\s[A-Z][a-zà-ÿ]+)*)\b`),
}

// Capitalized words that positional patterns must never take for a city.
var cityStoplist = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {},
	"june": {}, "july": {}, "august": {}, "september": {}, "october": {},
	"november": {}, "december": {},
	"today": {}, "tomorrow": {}, "tonight": {}, "i": {}, "the": {},
	"weather": {}, "general": {},
	// pronoun references are resolved from history, never taken literally
	"there": {}, "that": {}, "this": {}, "it": {}, "here": {}, "place": {},
}

// Trailing words cut from a lowercase positional capture.
var temporalTailRe = regexp.MustCompile(`(?i)\s+(?:today|tomorrow|tonight|tommorow|tomorow|this|next|on|at|for|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b.*$`)

func matchPositional(text string) string {
	for _, re := range positionalPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if city := cleanCityCapture(m[1]); city != "" {
			return city
		}
	}
	return ""
}

func cleanCityCapture(raw string) string {
	raw = temporalTailRe.ReplaceAllString(raw, "")
	if i := strings.IndexAny(raw, "?!.,;:\n"); i >= 0 {
		raw = raw[:i]
	}
	raw = normalizeSpace(raw)
	if raw == "" {
		return ""
	}
	words := strings.Fields(raw)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, bad := cityStoplist[strings.ToLower(w)]; bad {
			break
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return ""
	}
	return titleCase(strings.Join(kept, " "))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "de" || w == "of" || w == "the" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
