package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/pkg/log"
)

// FallbackReply is returned when the provider fails; transport errors never
// cross this boundary.
const FallbackReply = "I'm having trouble putting an answer together right now. Please try again in a moment."

// Resilient wraps an AIProvider so callers always get usable text.
type Resilient struct {
	inner core.AIProvider
}

func NewResilient(inner core.AIProvider) *Resilient {
	return &Resilient{inner: inner}
}

func (r *Resilient) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	msg, err := r.inner.Chat(ctx, history)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("llm chat failed, using fallback reply")
		return core.NewMessage(core.RoleAssistant, FallbackReply), nil
	}
	if strings.TrimSpace(msg.Content) == "" {
		log.FromCtx(ctx).Warn().Msg("llm returned empty content, using fallback reply")
		return core.NewMessage(core.RoleAssistant, FallbackReply), nil
	}
	return msg, nil
}
