// Package extract recovers structured context (city, target day, user
// preferences) from free-form conversation text and maintains
// per-conversation memory.
package extract

import (
	"strings"

	"github.com/sandevgo/skyline/internal/core"
)

type Extractor struct {
	store         core.ConversationStore
	historyWindow int
}

func New(store core.ConversationStore, historyWindow int) *Extractor {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Extractor{store: store, historyWindow: historyWindow}
}

// City resolves the city a message talks about. Known city names win; a
// purely contextual message ("what's it like there?") falls back to recent
// history; otherwise positional patterns are tried. Messages that look like
// the assistant's own formatted output are never mined, so the extractor
// cannot rediscover a city inside its own prior replies.
func (e *Extractor) City(text string, history []core.Message) string {
	if looksLikeSystemOutput(text) {
		return ""
	}
	if city := matchKnownCity(text); city != "" {
		return city
	}
	if city := matchPositional(text); city != "" {
		return city
	}
	if IsContextual(text) || IsDayFollowup(text) {
		return e.CityFromHistory(history)
	}
	return ""
}

// CityFromHistory scans the most recent messages newest-first and returns
// the first resolvable city.
func (e *Extractor) CityFromHistory(history []core.Message) string {
	start := len(history) - e.historyWindow
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= start; i-- {
		text := history[i].Content
		if looksLikeSystemOutput(text) {
			continue
		}
		if city := matchKnownCity(text); city != "" {
			return city
		}
		if city := matchPositional(text); city != "" {
			return city
		}
	}
	return ""
}

// HistoryWindow is the number of messages mined for contextual references.
func (e *Extractor) HistoryWindow() int {
	return e.historyWindow
}

// UpdateMemory appends the message to the conversation and, for user
// messages, merges extracted preferences and newly mentioned locations.
// Assistant messages are stored but never mined. The caller is expected to
// hold the store's per-id lock.
func (e *Extractor) UpdateMemory(id string, msg core.Message) {
	conv := e.store.GetOrCreate(id)
	conv.Messages = append(conv.Messages, msg)

	if msg.Role != core.RoleUser {
		return
	}
	conv.Preferences.Merge(e.Preferences(msg.Content))
	if city := e.City(msg.Content, nil); city != "" {
		conv.AddLocation(city)
	}
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
