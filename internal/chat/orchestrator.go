// ABOUTME: Orchestrator runs one visitor message through selection, parallel persona replies and suggestions
// ABOUTME: Only the first selected persona's reply is committed; the rest are staged in a Continuation
package chat

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/metrics"
	"github.com/harper/museum-guide/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHistoryWindow  = 6
	DefaultSuggestWindow  = 4
	DefaultMaxSuggestions = 4
)

// Options tunes the orchestrator's windows and suggestion timing
type Options struct {
	HistoryWindow  int
	SuggestWindow  int
	MaxSuggestions int
	// SuggestWait bounds how long ProcessMessage waits for suggestions.
	// Zero waits for them, negative never waits and leaves them to a later poll.
	SuggestWait time.Duration
}

// DefaultOptions returns the standard windows with suggestions always attached
func DefaultOptions() Options {
	return Options{
		HistoryWindow:  DefaultHistoryWindow,
		SuggestWindow:  DefaultSuggestWindow,
		MaxSuggestions: DefaultMaxSuggestions,
	}
}

// Orchestrator coordinates the selector, responder and suggester for one credential
type Orchestrator struct {
	selector  *Selector
	responder *Responder
	suggester *Suggester
	opts      Options
	logger    zerolog.Logger
}

// NewOrchestrator wires the components over a single completer
func NewOrchestrator(completer llm.Completer, opts Options, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		selector:  NewSelector(completer, logger),
		responder: NewResponder(completer, opts.HistoryWindow, logger),
		suggester: NewSuggester(completer, opts.SuggestWindow, opts.MaxSuggestions, logger),
		opts:      opts,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Responder exposes the persona responder for single-persona flows
func (o *Orchestrator) Responder() *Responder {
	return o.responder
}

// Suggester exposes the suggestion generator for on-demand polling
func (o *Orchestrator) Suggester() *Suggester {
	return o.suggester
}

// MessageInput is one visitor message plus the history it arrives on
type MessageInput struct {
	Message    string
	History    []models.Turn // does not include Message
	Context    string
	Model      string
	Directives models.DirectiveSet
	User       *models.UserInfo
}

// MessageResult is the outcome of ProcessMessage
type MessageResult struct {
	Turns              []models.Turn // History plus the first persona's reply
	Reply              models.Turn
	Selection          []models.Persona
	Continuation       *Continuation // nil when a single persona was selected
	Suggestions        []string
	SuggestionsPending bool
}

// ShouldContinue reports whether more personas are waiting to speak
func (r *MessageResult) ShouldContinue() bool {
	return r.Continuation.Pending()
}

// NextRole returns the next persona to reveal, if any
func (r *MessageResult) NextRole() (models.Persona, bool) {
	return r.Continuation.NextRole()
}

// ProcessMessage selects personas, generates all their replies in parallel and commits the first.
// in.History is never modified.
func (o *Orchestrator) ProcessMessage(ctx context.Context, in MessageInput) (*MessageResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, required("message")
	}

	selection := o.selector.Select(ctx, in.Message, in.Context, in.Model, in.Directives.Manager)

	replies := make([]models.Turn, len(selection))
	var eg errgroup.Group
	for i, persona := range selection {
		eg.Go(func() error {
			replies[i] = o.responder.Respond(ctx, RespondInput{
				Persona:   persona,
				Utterance: in.Message,
				History:   in.History,
				Context:   in.Context,
				Directive: in.Directives.For(persona),
				Model:     in.Model,
				User:      in.User,
			})
			return nil
		})
	}
	_ = eg.Wait()

	result := &MessageResult{
		Turns:     append(slices.Clone(in.History), replies[0]),
		Reply:     replies[0],
		Selection: selection,
	}
	if len(selection) > 1 {
		result.Continuation = NewContinuation(selection, replies)
	}

	o.logger.Info().
		Strs("selection", personaNames(selection)).
		Str("first", selection[0].String()).
		Msg("reply committed")

	result.Suggestions, result.SuggestionsPending = o.attachSuggestions(ctx, SuggestInput{
		History: result.Turns,
		Context: in.Context,
		Model:   in.Model,
		User:    in.User,
	})
	return result, nil
}

// attachSuggestions waits for suggestions according to Options.SuggestWait.
// pending is true when the caller should poll for them instead.
func (o *Orchestrator) attachSuggestions(ctx context.Context, in SuggestInput) (questions []string, pending bool) {
	switch {
	case o.opts.SuggestWait < 0:
		return nil, true
	case o.opts.SuggestWait == 0:
		return o.suggester.Suggest(ctx, in), false
	}

	ctx, cancel := context.WithTimeout(ctx, o.opts.SuggestWait)
	defer cancel()

	done := make(chan []string, 1)
	go func() {
		done <- o.suggester.Suggest(ctx, in)
	}()

	select {
	case questions = <-done:
		if ctx.Err() == nil {
			return questions, false
		}
	case <-ctx.Done():
	}
	o.logger.Debug().Dur("wait", o.opts.SuggestWait).Msg("suggestions not ready, leaving them to a poll")
	return nil, true
}

// ContinueInput reveals the next persona of a pending continuation
type ContinueInput struct {
	State     *Continuation // advanced in place
	History   []models.Turn // everything revealed so far, including earlier continue turns
	Context   string
	Model     string
	Directive string // directive of the persona at State.Cursor, used on a cache miss
	User      *models.UserInfo
}

// ContinueResult is the outcome of Continue
type ContinueResult struct {
	Turn           models.Turn
	Cached         bool
	ShouldContinue bool
	NextRole       models.Persona
	Suggestions    []string
}

// Continue reveals the persona at the cursor. A cached reply costs no model call;
// a miss asks the persona to add to the conversation. Suggestions are always regenerated.
func (o *Orchestrator) Continue(ctx context.Context, in ContinueInput) (*ContinueResult, error) {
	persona, ok := in.State.NextRole()
	if !ok {
		return nil, ErrNoContinuation
	}

	result := &ContinueResult{}
	if turn, hit := in.State.take(persona); hit {
		result.Turn = turn
		result.Cached = true
		metrics.PersonaTurns.WithLabelValues(persona.String(), metrics.SourceCached).Inc()
	} else {
		if strings.TrimSpace(in.Directive) == "" {
			return nil, required("rolePrompt")
		}
		instruction := continueInstruction(persona)
		result.Turn = o.responder.Respond(ctx, RespondInput{
			Persona:   persona,
			Utterance: instruction,
			History:   in.History,
			Context:   in.Context,
			Directive: in.Directive + "\n\n" + instruction,
			Model:     in.Model,
			User:      in.User,
			Apology:   continueApology,
		})
	}

	in.State.advance()
	if next, more := in.State.NextRole(); more {
		result.ShouldContinue = true
		result.NextRole = next
	}

	o.logger.Info().
		Str("persona", persona.String()).
		Bool("cached", result.Cached).
		Int("cursor", in.State.Cursor).
		Msg("continuation revealed")

	result.Suggestions = o.suggester.Suggest(ctx, SuggestInput{
		History: append(slices.Clone(in.History), result.Turn),
		Context: in.Context,
		Model:   in.Model,
		User:    in.User,
	})
	return result, nil
}

func personaNames(ps []models.Persona) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return names
}
