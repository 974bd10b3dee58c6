// ABOUTME: Responder produces one persona's reply over a bounded window of recent history
// ABOUTME: A failed completion becomes an apology turn so parallel fan-out never loses a persona
package chat

import (
	"context"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/metrics"
	"github.com/harper/museum-guide/internal/models"
	"github.com/rs/zerolog"
)

// RespondInput is everything one persona needs to answer
type RespondInput struct {
	Persona   models.Persona
	Utterance string
	History   []models.Turn // prior turns; the reply being generated is never part of it
	Context   string
	Directive string
	Model     string
	User      *models.UserInfo
	Apology   string // fallback text, defaults to the reply apology
}

// Responder builds persona prompts and calls the completion gateway
type Responder struct {
	completer llm.Completer
	window    int
	logger    zerolog.Logger
}

// NewResponder creates a Responder that shows the model at most window prior turns
func NewResponder(completer llm.Completer, window int, logger zerolog.Logger) *Responder {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Responder{
		completer: completer,
		window:    window,
		logger:    logger.With().Str("component", "responder").Logger(),
	}
}

// Generate returns the raw completion for in, propagating gateway errors
func (r *Responder) Generate(ctx context.Context, in RespondInput) (string, error) {
	recent := models.Recent(in.History, r.window)

	messages := make([]llm.Message, 0, len(recent)+1)
	for _, t := range recent {
		messages = append(messages, llm.Message{Role: gatewayRole(t.Speaker), Text: t.Text})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Text: in.Utterance})

	return r.completer.Complete(ctx, llm.Request{
		Model:    in.Model,
		System:   personaSystemPrompt(in.Persona, in.Directive, in.Context, in.User, recent),
		Messages: messages,
	})
}

// Respond always returns a turn attributed to in.Persona
func (r *Responder) Respond(ctx context.Context, in RespondInput) models.Turn {
	text, err := r.Generate(ctx, in)
	if err != nil {
		apology := in.Apology
		if apology == "" {
			apology = replyApology
		}
		r.logger.Warn().Err(err).Str("persona", in.Persona.String()).Msg("reply failed, using apology")
		metrics.PersonaTurns.WithLabelValues(in.Persona.String(), metrics.SourceFallback).Inc()
		metrics.Fallbacks.WithLabelValues("responder").Inc()
		return models.NewPersonaTurn(in.Persona, apology)
	}

	metrics.PersonaTurns.WithLabelValues(in.Persona.String(), metrics.SourceGenerated).Inc()
	return models.NewPersonaTurn(in.Persona, text)
}

// gatewayRole maps a turn speaker onto the roles the gateway accepts
func gatewayRole(p models.Persona) llm.Role {
	switch p {
	case models.PersonaUser:
		return llm.RoleUser
	case models.PersonaSystem:
		return llm.RoleSystem
	case models.PersonaArtifact, models.PersonaAuthor, models.PersonaGuide:
		return llm.RoleAssistant
	}
	return llm.RoleAssistant
}
