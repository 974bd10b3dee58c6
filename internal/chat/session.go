// ABOUTME: Session owns one visitor's conversation: turns, pending continuation, learned user info
// ABOUTME: Used by the interactive CLI; not safe for concurrent use
package chat

import (
	"context"
	"slices"
	"strings"

	"github.com/harper/museum-guide/internal/models"
)

// SessionConfig fixes the per-conversation inputs
type SessionConfig struct {
	Context    string
	Model      string
	Directives models.DirectiveSet
	User       models.UserInfo
}

// Session is a single conversation driven through an Orchestrator
type Session struct {
	orchestrator *Orchestrator
	cfg          SessionConfig

	history     []models.Turn
	pending     *Continuation
	user        models.UserInfo
	suggestions []string
}

// NewSession starts an empty conversation
func NewSession(o *Orchestrator, cfg SessionConfig) *Session {
	return &Session{
		orchestrator: o,
		cfg:          cfg,
		user:         cfg.User,
	}
}

// Send appends the visitor message and the first persona reply.
// Any continuation still pending from an earlier message is discarded.
func (s *Session) Send(ctx context.Context, message string) (*MessageResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, required("message")
	}
	userTurn, err := models.NewTurn(models.PersonaUser, message)
	if err != nil {
		return nil, err
	}

	s.pending = nil
	s.user = models.ExtractUserInfo(message, s.user)

	result, err := s.orchestrator.ProcessMessage(ctx, MessageInput{
		Message:    message,
		History:    s.history,
		Context:    s.cfg.Context,
		Model:      s.cfg.Model,
		Directives: s.cfg.Directives,
		User:       s.userInfo(),
	})
	if err != nil {
		return nil, err
	}

	s.history = append(s.history, userTurn, result.Reply)
	s.pending = result.Continuation
	s.suggestions = result.Suggestions
	return result, nil
}

// Continue reveals the next pending persona
func (s *Session) Continue(ctx context.Context) (*ContinueResult, error) {
	role, ok := s.pending.NextRole()
	if !ok {
		return nil, ErrNoContinuation
	}

	result, err := s.orchestrator.Continue(ctx, ContinueInput{
		State:     s.pending,
		History:   s.history,
		Context:   s.cfg.Context,
		Model:     s.cfg.Model,
		Directive: s.cfg.Directives.For(role),
		User:      s.userInfo(),
	})
	if err != nil {
		return nil, err
	}

	s.history = append(s.history, result.Turn)
	s.suggestions = result.Suggestions
	if !s.pending.Pending() {
		s.pending = nil
	}
	return result, nil
}

// Pending reports whether Continue has a persona to reveal
func (s *Session) Pending() bool {
	return s.pending.Pending()
}

// NextRole returns the persona Continue would reveal
func (s *Session) NextRole() (models.Persona, bool) {
	return s.pending.NextRole()
}

// History returns a copy of the conversation so far
func (s *Session) History() []models.Turn {
	return slices.Clone(s.history)
}

// User returns what the session has learned about the visitor
func (s *Session) User() models.UserInfo {
	return s.user
}

// Suggestions returns the latest follow-up questions
func (s *Session) Suggestions() []string {
	return slices.Clone(s.suggestions)
}

func (s *Session) userInfo() *models.UserInfo {
	if !s.user.Known() {
		return nil
	}
	u := s.user
	return &u
}
