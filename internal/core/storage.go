package core

import "time"

// Conversation is the per-id aggregate owned by the conversation store:
// append-only message history, merged preferences, the set of locations
// mentioned so far and any trip plan drafts.
type Conversation struct {
	ID          string          `json:"id"`
	Messages    []Message       `json:"messages"`
	Preferences UserPreferences `json:"preferences"`
	Locations   []string        `json:"locations"`
	Plans       []TripPlan      `json:"plans"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (c *Conversation) AddLocation(city string) {
	for _, l := range c.Locations {
		if l == city {
			return
		}
	}
	c.Locations = append(c.Locations, city)
}

// LastMessages returns up to n most recent messages, oldest first.
func (c *Conversation) LastMessages(n int) []Message {
	if n <= 0 || len(c.Messages) == 0 {
		return nil
	}
	if len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// ConversationStore keeps in-flight conversations for the process lifetime,
// bounded by an eviction policy. Acquire serializes turns on the same id:
// two concurrent requests for one conversation must not interleave their
// read-modify-write of history.
type ConversationStore interface {
	Get(id string) (*Conversation, bool)
	GetOrCreate(id string) *Conversation
	Acquire(id string) (release func())
	Len() int
}
