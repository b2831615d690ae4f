package chat

import "regexp"

// Classifier decides which turns need external data and which count as
// complex queries. Kept behind an interface so lists and thresholds can be
// swapped without touching the orchestrator.
type Classifier interface {
	NeedsExternalData(text string) bool
	IsComplex(text string) bool
}

var (
	externalDataRe = regexp.MustCompile(`(?i)\b(weather|forecast|temperature|rain|raining|rainy|snow|snowing|sunny|cloudy|windy|humid|umbrella|pack|wear|hot|cold|warm)\b`)
	complexRe      = regexp.MustCompile(`(?i)\b(plan|itinerary|trip|compare|versus|options|recommend|week|weekend|schedule)\b`)
)

const complexWordThreshold = 15

type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) NeedsExternalData(text string) bool {
	return externalDataRe.MatchString(text)
}

func (c *KeywordClassifier) IsComplex(text string) bool {
	if complexRe.MatchString(text) {
		return true
	}
	words := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	return words > complexWordThreshold
}
