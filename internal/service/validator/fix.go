package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Hedged replacements for absolute adverbs.
var hedges = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`(?i)\bguaranteed\b`), "likely"},
	{regexp.MustCompile(`(?i)\bdefinitely\b`), "probably"},
	{regexp.MustCompile(`(?i)\balways\b`), "typically"},
	{regexp.MustCompile(`(?i)\bnever\b`), "rarely"},
	{regexp.MustCompile(`(?i)\bcertainly\b`), "probably"},
	{regexp.MustCompile(`(?i)\babsolutely\b`), "most likely"},
}

var (
	exactlyRe   = regexp.MustCompile(`(?i)\bexactly(\s+[$€£]?\d)`)
	preciselyRe = regexp.MustCompile(`(?i)\bprecisely(\s+[$€£]?\d)`)

	preciseCurrencyRe = regexp.MustCompile(`\$(\d{3,})\.(\d{2})\b`)

	// A clock time shortly after a schedule verb gets an "around" prefix,
	// unless one is already there.
	scheduleTimeRe = regexp.MustCompile(`(?i)\b(starts|begins|opens|served|departs|arrives|closes)(\W[^.!?\n]{0,30}?)(\d{1,2}:\d{2}\s*(?:[ap]m|[AP]M)?)`)

	sentenceStartRe = regexp.MustCompile(`(^|[.!?]\s+)([a-z])`)
)

// Fix applies the repair transformations: hedge absolute adverbs, soften
// exact numbers and schedule times, round suspiciously precise prices and
// restore sentence capitalization disturbed by the rewrites.
func (v *Validator) Fix(text string, issues []string) string {
	for _, h := range hedges {
		text = h.re.ReplaceAllStringFunc(text, func(m string) string {
			return matchCase(m, h.with)
		})
	}

	text = exactlyRe.ReplaceAllStringFunc(text, func(m string) string {
		return replaceLeadingWord(m, "exactly", "approximately")
	})
	text = preciselyRe.ReplaceAllStringFunc(text, func(m string) string {
		return replaceLeadingWord(m, "precisely", "around")
	})

	text = scheduleTimeRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := scheduleTimeRe.FindStringSubmatch(m)
		if strings.Contains(strings.ToLower(sub[2]), "around") ||
			strings.Contains(strings.ToLower(sub[2]), "about") {
			return m
		}
		return sub[1] + sub[2] + "around " + sub[3]
	})

	text = preciseCurrencyRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := preciseCurrencyRe.FindStringSubmatch(m)
		amount, err := strconv.ParseFloat(sub[1]+"."+sub[2], 64)
		if err != nil {
			return m
		}
		return fmt.Sprintf("$%.0f", math.Round(amount/10)*10)
	})

	text = sentenceStartRe.ReplaceAllStringFunc(text, func(m string) string {
		runes := []rune(m)
		runes[len(runes)-1] = unicode.ToUpper(runes[len(runes)-1])
		return string(runes)
	})

	return text
}

// matchCase carries the capitalization of the original word onto the
// replacement.
func matchCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}
	first := []rune(original)[0]
	if unicode.IsUpper(first) {
		r := []rune(replacement)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return replacement
}

func replaceLeadingWord(match, word, with string) string {
	rest := match[len(word):]
	lead := match[:len(word)]
	return matchCase(lead, with) + rest
}
