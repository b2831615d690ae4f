// Package validator scores generated text for unsupported or contradictory
// claims and can repair it in place.
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sandevgo/skyline/internal/core"
)

const (
	// ConfidenceCap bounds the score: only weather claims can be strongly
	// verified, every other signal is a small bounded increment.
	ConfidenceCap = 65

	// RegenerateThreshold exceeds ConfidenceCap, so the regeneration
	// branch cannot fire until the two constants are reconciled. Both are
	// kept as configured pending a decision on which value was intended.
	RegenerateThreshold = 70

	// AutoFixThreshold is the score at which repair kicks in.
	AutoFixThreshold = 30

	// Contradiction tolerances against forecast data.
	TempToleranceDegrees = 3.0
	RainTolerancePoints  = 10

	bareTempPenalty          = 15
	unhedgedConditionPenalty = 12
	overlySpecificPenalty    = 8
)

var (
	tempMentionRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*°\s*[CF]\b`)
	conditionRe   = regexp.MustCompile(`(?i)\b(rain|rainy|raining|sunny|cloudy|overcast|snow|snowy|snowing|storm|stormy|windy|foggy|clear skies)\b`)
	hedgeRe       = regexp.MustCompile(`(?i)\b(typically|usually|probably|normally|likely|might|may|could|expect(?:ed)?|forecast)\b`)

	exactNumberRe = regexp.MustCompile(`(?i)\b(exactly|precisely)\s+[$€£]?\d`)
	currencyRe    = regexp.MustCompile(`\$\d{3,}\.\d{2}\b`)
	clockRe       = regexp.MustCompile(`\b\d{1,2}:\d{2}\s*(?:[ap]m|[AP]M)?\b`)
	absoluteRe    = regexp.MustCompile(`(?i)\b(guaranteed|definitely|always|never|certainly|absolutely)\b`)

	percentRe = regexp.MustCompile(`(\d{1,3})\s*%`)
	rainCueRe = regexp.MustCompile(`(?i)rain|precipitation|shower|drizzle|chance`)
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Detect scores text against the available external context. The returned
// confidence is always in [0,65]. Contradiction issues against forecast data
// are reported but add no confidence under the current policy.
func (v *Validator) Detect(text string, ext *core.ExternalContext) (suspicious bool, issues []string, confidence int) {
	snap := weatherOf(ext)

	if snap == nil {
		if tempMentionRe.MatchString(text) {
			confidence += bareTempPenalty
			issues = append(issues, "temperature stated without forecast data")
		}
		if cond := unhedgedCondition(text); cond != "" {
			confidence += unhedgedConditionPenalty
			issues = append(issues, fmt.Sprintf("weather condition %q stated without hedging or data", cond))
		}
	} else {
		issues = append(issues, temperatureContradictions(text, snap)...)
		issues = append(issues, rainContradictions(text, snap)...)
	}

	if n := len(exactNumberRe.FindAllString(text, -1)); n > 0 {
		confidence += n * overlySpecificPenalty
		issues = append(issues, "claims exact numeric values")
	}
	if n := len(currencyRe.FindAllString(text, -1)); n > 0 {
		confidence += n * overlySpecificPenalty
		issues = append(issues, "states suspiciously precise prices")
	}
	if n := len(clockRe.FindAllString(text, -1)); n > 0 {
		confidence += n * overlySpecificPenalty
		issues = append(issues, "states exact clock times")
	}
	if n := len(absoluteRe.FindAllString(text, -1)); n > 0 {
		confidence += n * overlySpecificPenalty
		issues = append(issues, "uses absolute language")
	}

	if confidence > ConfidenceCap {
		confidence = ConfidenceCap
	}
	return confidence >= AutoFixThreshold, issues, confidence
}

// Validate composes Detect and Fix.
func (v *Validator) Validate(text string, ext *core.ExternalContext, autoFix bool) core.ValidationResult {
	_, issues, confidence := v.Detect(text, ext)

	res := core.ValidationResult{
		Valid:      true,
		Text:       text,
		Issues:     issues,
		Confidence: confidence,
	}

	switch {
	case confidence < AutoFixThreshold:
		return res
	case confidence <= ConfidenceCap:
		if autoFix {
			res.Text = v.Fix(text, issues)
			res.Fixed = true
		} else {
			res.Valid = false
		}
		return res
	default:
		// Unreachable while the cap holds. Kept as the designed terminal
		// path should the cap ever be raised: original text, marked
		// invalid.
		res.Valid = false
		return res
	}
}

func weatherOf(ext *core.ExternalContext) *core.WeatherSnapshot {
	if ext == nil || ext.Kind != core.ContextKindWeather {
		return nil
	}
	return ext.Weather
}

// unhedgedCondition returns the first weather-condition word that appears
// in a sentence with no uncertainty qualifier.
func unhedgedCondition(text string) string {
	for _, sentence := range splitSentences(text) {
		m := conditionRe.FindString(sentence)
		if m != "" && !hedgeRe.MatchString(sentence) {
			return strings.ToLower(m)
		}
	}
	return ""
}

var sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)

func splitSentences(text string) []string {
	return sentenceSplitRe.Split(text, -1)
}

func temperatureContradictions(text string, snap *core.WeatherSnapshot) []string {
	var issues []string
	for _, m := range tempMentionRe.FindAllStringSubmatch(text, -1) {
		stated, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch {
		case stated > snap.TempMax+TempToleranceDegrees:
			issues = append(issues, fmt.Sprintf("stated %s°C exceeds forecast high of %.0f°C", m[1], snap.TempMax))
		case stated < snap.TempMin-TempToleranceDegrees:
			issues = append(issues, fmt.Sprintf("stated %s°C is below forecast low of %.0f°C", m[1], snap.TempMin))
		}
	}
	return issues
}

func rainContradictions(text string, snap *core.WeatherSnapshot) []string {
	var issues []string
	for _, loc := range percentRe.FindAllStringSubmatchIndex(text, -1) {
		window := contextWindow(text, loc[0], loc[1], 40)
		if !rainCueRe.MatchString(window) {
			continue
		}
		stated, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		diff := stated - snap.RainChance
		if diff < 0 {
			diff = -diff
		}
		if diff > RainTolerancePoints {
			issues = append(issues, fmt.Sprintf("stated %d%% rain chance contradicts forecast %d%%", stated, snap.RainChance))
		}
	}
	return issues
}

func contextWindow(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
