// Package chat runs a single conversational turn: clarify, resolve context,
// fetch external data, generate, validate and normalize, in that order.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandevgo/skyline/internal/config"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/clarify"
	"github.com/sandevgo/skyline/internal/service/extract"
	"github.com/sandevgo/skyline/internal/service/normalizer"
	"github.com/sandevgo/skyline/internal/service/validator"
	"github.com/sandevgo/skyline/pkg/log"
)

const (
	beyondRangeReply = "I can only see about 5 days ahead, so that date is beyond my forecast range. Ask me again closer to the day!"
	weatherDownReply = "I couldn't reach the weather service just now. Want me to try again, or help you with something else in the meantime?"
	emptyTurnReply   = "I didn't catch that. What would you like to know?"
)

// Debug carries per-turn resolution details, surfaced in API responses when
// debug mode is on.
type Debug struct {
	CityDetected string `json:"city_detected"`
	DaysAhead    int    `json:"days_ahead"`
	IsComplex    bool   `json:"is_complex"`
}

// TurnResult is everything a transport needs to answer one message.
type TurnResult struct {
	Reply          string
	ConversationID string
	External       *core.ExternalContext
	Debug          Debug
}

type Orchestrator struct {
	cfg        *config.AppConfig
	ai         core.AIProvider
	forecaster core.Forecaster
	store      core.ConversationStore
	extractor  *extract.Extractor
	gate       *clarify.Gate
	classifier Classifier
	norm       *normalizer.Normalizer
	val        *validator.Validator
	prompts    *promptBuilder
	now        func() time.Time
}

func New(
	cfg *config.AppConfig,
	ai core.AIProvider,
	forecaster core.Forecaster,
	store core.ConversationStore,
	extractor *extract.Extractor,
	gate *clarify.Gate,
	classifier Classifier,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		ai:         ai,
		forecaster: forecaster,
		store:      store,
		extractor:  extractor,
		gate:       gate,
		classifier: classifier,
		norm:       normalizer.New(),
		val:        validator.New(),
		prompts:    newPromptBuilder(cfg.PromptTurns, cfg.PromptTokenBudget),
		now:        time.Now,
	}
}

// Turn processes one user message end to end. Turns on the same conversation
// id are serialized; different ids proceed in parallel.
func (o *Orchestrator) Turn(ctx context.Context, conversationID, message string) (*TurnResult, error) {
	release := o.store.Acquire(conversationID)
	defer release()

	conv := o.store.GetOrCreate(conversationID)
	logger := log.FromCtx(ctx).With().Str("conversation_id", conversationID).Logger()

	if strings.TrimSpace(message) == "" {
		return o.finish(conversationID, message, emptyTurnReply, nil, Debug{}), nil
	}

	// Clarification runs against history as it stood before this message.
	if reply := o.gate.NeedsClarification(message, conv.Messages); reply != "" {
		logger.Debug().Str("reply", reply).Msg("turn short-circuited for clarification")
		return o.finish(conversationID, message, reply, nil, Debug{}), nil
	}

	city := o.extractor.City(message, conv.Messages)
	day := o.extractor.Day(message, o.now())
	dbg := Debug{
		CityDetected: city,
		DaysAhead:    day.DaysAhead,
		IsComplex:    o.classifier.IsComplex(message),
	}

	// Day follow-ups inherit the weather intent of the question they
	// follow, even when they carry no weather word themselves.
	needsExternal := o.classifier.NeedsExternalData(message) || extract.IsDayFollowup(message)

	var ext *core.ExternalContext
	if needsExternal {
		// The horizon check fires before any provider call, and before
		// city resolution matters at all.
		if day.DaysAhead > o.cfg.MaxForecastDays {
			logger.Debug().Int("days_ahead", day.DaysAhead).Msg("requested day beyond forecast horizon")
			return o.finish(conversationID, message, beyondRangeReply, nil, dbg), nil
		}
		if city == "" {
			return o.finish(conversationID, message, clarify.AskCityReply, nil, dbg), nil
		}

		snap, err := o.forecaster.Forecast(ctx, city, day.DaysAhead)
		if err != nil {
			logger.Warn().Err(err).Str("city", city).Msg("weather lookup failed")
			return o.finish(conversationID, message, weatherDownReply, nil, dbg), nil
		}
		ext = core.NewWeatherContext(snap)
	}

	o.extractor.UpdateMemory(conversationID, core.NewMessage(core.RoleUser, message))

	reply, err := o.generate(ctx, conv, ext, logger)
	if err != nil {
		return nil, err
	}
	reply = o.norm.Clean(reply)

	o.extractor.UpdateMemory(conversationID, core.NewMessage(core.RoleAssistant, reply))
	if dbg.IsComplex && city != "" {
		conv.Plans = append(conv.Plans, core.TripPlan{
			Destination: city,
			DaysAhead:   day.DaysAhead,
			Summary:     firstLine(reply),
			CreatedAt:   o.now(),
		})
	}

	return &TurnResult{
		Reply:          reply,
		ConversationID: conversationID,
		External:       ext,
		Debug:          dbg,
	}, nil
}

// generate produces a draft, scores it, and repairs or regenerates once when
// the score demands it. The second draft is used regardless of its score.
func (o *Orchestrator) generate(ctx context.Context, conv *core.Conversation, ext *core.ExternalContext, logger zerolog.Logger) (string, error) {
	msg, err := o.ai.Chat(ctx, o.prompts.Build(conv, ext, false))
	if err != nil {
		return "", err
	}

	res := o.val.Validate(msg.Content, ext, true)
	if res.Confidence > validator.RegenerateThreshold {
		logger.Info().Int("confidence", res.Confidence).Strs("issues", res.Issues).Msg("regenerating with strict prompt")
		retry, err := o.ai.Chat(ctx, o.prompts.Build(conv, ext, true))
		if err != nil {
			return "", err
		}
		res = o.val.Validate(retry.Content, ext, true)
	}
	if res.Fixed {
		logger.Debug().Int("confidence", res.Confidence).Strs("issues", res.Issues).Msg("reply auto-fixed")
	}
	return res.Text, nil
}

// finish records a turn answered without the generator: clarifications,
// horizon refusals and provider outages still become part of history.
func (o *Orchestrator) finish(conversationID, userMsg, reply string, ext *core.ExternalContext, dbg Debug) *TurnResult {
	o.extractor.UpdateMemory(conversationID, core.NewMessage(core.RoleUser, userMsg))
	o.extractor.UpdateMemory(conversationID, core.NewMessage(core.RoleAssistant, reply))
	return &TurnResult{
		Reply:          reply,
		ConversationID: conversationID,
		External:       ext,
		Debug:          dbg,
	}
}

func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i]
		}
	}
	return text
}
