package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/sandevgo/skyline/internal/core"
)

// Weekday names plus the common misspellings seen in real traffic.
// "wednsday" and "wendsday" both normalize to Wednesday.
var weekdayAliases = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"wednsday":  time.Wednesday,
	"wendsday":  time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var (
	dayAfterRe = regexp.MustCompile(`\bday\s+after\s+tomm?orr?ow\b`)
	tomorrowRe = regexp.MustCompile(`\b(?:tomorrow|tommorow|tomorow)\b`)
	todayRe    = regexp.MustCompile(`\btoday\b`)
	weekdayRe  = regexp.MustCompile(`\b(monday|tuesday|wednesday|wednsday|wendsday|thursday|friday|saturday|sunday)\b`)
)

// Day resolves the temporal reference in a message relative to now. Exact
// phrases win over weekday names; no temporal cue at all means today.
func (e *Extractor) Day(text string, now time.Time) core.DayRef {
	lower := strings.ToLower(text)

	switch {
	case dayAfterRe.MatchString(lower):
		return dayRef(now, 2)
	case tomorrowRe.MatchString(lower):
		return dayRef(now, 1)
	case todayRe.MatchString(lower):
		return dayRef(now, 0)
	}

	if m := weekdayRe.FindString(lower); m != "" {
		target := weekdayAliases[m]
		offset := (int(target) - int(now.Weekday())) % 7
		if offset <= 0 {
			// A named weekday never means today: same-day mentions
			// point at next week.
			offset += 7
		}
		return dayRef(now, offset)
	}

	return dayRef(now, 0)
}

func dayRef(now time.Time, offset int) core.DayRef {
	return core.DayRef{
		TargetDay: strings.ToLower(now.AddDate(0, 0, offset).Weekday().String()),
		DaysAhead: offset,
	}
}

// MentionsDay reports whether the text carries any temporal cue the day
// resolver understands.
func MentionsDay(text string) bool {
	lower := strings.ToLower(text)
	return todayRe.MatchString(lower) ||
		tomorrowRe.MatchString(lower) ||
		dayAfterRe.MatchString(lower) ||
		weekdayRe.MatchString(lower)
}
