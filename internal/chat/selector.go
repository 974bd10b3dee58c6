// ABOUTME: Selector asks the model which personas should answer a visitor message
// ABOUTME: ParseRoles is the boundary adapter from free text to a validated persona sequence
package chat

import (
	"context"
	"strings"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/metrics"
	"github.com/harper/museum-guide/internal/models"
	"github.com/rs/zerolog"
)

// Selector chooses the ordered persona sequence for one user message
type Selector struct {
	completer llm.Completer
	logger    zerolog.Logger
}

// NewSelector creates a Selector
func NewSelector(completer llm.Completer, logger zerolog.Logger) *Selector {
	return &Selector{
		completer: completer,
		logger:    logger.With().Str("component", "selector").Logger(),
	}
}

// Select returns at least one persona. Any failure yields exactly [guide].
func (s *Selector) Select(ctx context.Context, utterance, domainContext, model, managerDirective string) []models.Persona {
	raw, err := s.completer.Complete(ctx, llm.Request{
		Model:    model,
		System:   managerPrompt(managerDirective, utterance, domainContext),
		Messages: []llm.Message{{Role: llm.RoleUser, Text: utterance}},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("selection failed, falling back to guide")
		return s.fallback()
	}

	roles, err := ParseRoles(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("selection unparseable, falling back to guide")
		return s.fallback()
	}

	metrics.SelectionSize.Observe(float64(len(roles)))
	s.logger.Debug().Str("raw", raw).Int("count", len(roles)).Msg("personas selected")
	return roles
}

func (s *Selector) fallback() []models.Persona {
	metrics.Fallbacks.WithLabelValues("selector").Inc()
	metrics.SelectionSize.Observe(1)
	return []models.Persona{models.DefaultPersona}
}

// ParseRoles lower-cases raw, splits on commas and keeps speaker tokens in order.
// Duplicates are kept. No valid token is a ParseError.
func ParseRoles(raw string) ([]models.Persona, error) {
	var roles []models.Persona
	for _, token := range strings.Split(strings.ToLower(raw), ",") {
		p := models.Persona(strings.TrimSpace(token))
		if p.IsSpeaker() {
			roles = append(roles, p)
		}
	}
	if len(roles) == 0 {
		return nil, &ParseError{Kind: "roles", Raw: raw}
	}
	return roles, nil
}
