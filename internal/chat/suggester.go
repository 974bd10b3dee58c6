// ABOUTME: Suggester proposes follow-up questions from the most recent turns
// ABOUTME: Stateless; failures and empty output fall back to a fixed default list
package chat

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/metrics"
	"github.com/harper/museum-guide/internal/models"
	"github.com/rs/zerolog"
)

var defaultQuestions = []string{
	"这个文物有什么特别之处？",
	"能详细介绍一下创作背景吗？",
	"这件文物现在在哪里？",
}

var enumerated = regexp.MustCompile(`^\d+[.、]`)

// DefaultQuestions returns a fresh copy of the fallback suggestions
func DefaultQuestions() []string {
	return slices.Clone(defaultQuestions)
}

// SuggestInput is the state a suggestion is computed from
type SuggestInput struct {
	History []models.Turn
	Context string
	Model   string
	User    *models.UserInfo
}

// Suggester generates follow-up questions
type Suggester struct {
	completer llm.Completer
	window    int
	limit     int
	logger    zerolog.Logger
}

// NewSuggester creates a Suggester looking at window turns and returning at most limit questions
func NewSuggester(completer llm.Completer, window, limit int, logger zerolog.Logger) *Suggester {
	if window <= 0 {
		window = DefaultSuggestWindow
	}
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}
	return &Suggester{
		completer: completer,
		window:    window,
		limit:     limit,
		logger:    logger.With().Str("component", "suggester").Logger(),
	}
}

// Suggest never fails; it never mutates in.History
func (s *Suggester) Suggest(ctx context.Context, in SuggestInput) []string {
	recent := models.Recent(in.History, s.window)

	raw, err := s.completer.Complete(ctx, llm.Request{
		Model:    in.Model,
		Messages: []llm.Message{{Role: llm.RoleUser, Text: suggestionPrompt(recent, in.Context, in.User)}},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("suggestions failed, using defaults")
		metrics.Fallbacks.WithLabelValues("suggester").Inc()
		return DefaultQuestions()
	}

	questions, err := ParseQuestions(raw, s.limit)
	if err != nil {
		s.logger.Debug().Err(err).Msg("suggestions unparseable, using defaults")
		metrics.Fallbacks.WithLabelValues("suggester").Inc()
		return DefaultQuestions()
	}
	return questions
}

// ParseQuestions keeps non-blank, non-enumerated lines in order, at most limit of them
func ParseQuestions(raw string, limit int) ([]string, error) {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || enumerated.MatchString(line) {
			continue
		}
		questions = append(questions, line)
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	if len(questions) == 0 {
		return nil, &ParseError{Kind: "questions", Raw: raw}
	}
	return questions, nil
}
