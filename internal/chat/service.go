// ABOUTME: Service is the transport-agnostic entry point shared by the HTTP API, MCP tools and CLI
// ABOUTME: Validates requests, connects a completer for the caller's credential and delegates to the core
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/models"
	"github.com/rs/zerolog"
)

// Service handles requests that each carry their own credential and history
type Service struct {
	connector    llm.Connector
	directives   models.DirectiveSet
	defaultModel string
	opts         Options
	logger       zerolog.Logger
}

// NewService creates a Service. directives fill in any persona directive a request leaves empty.
func NewService(connector llm.Connector, directives models.DirectiveSet, defaultModel string, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		connector:    connector,
		directives:   directives,
		defaultModel: defaultModel,
		opts:         opts,
		logger:       logger,
	}
}

// Directives returns the server-side default directive set
func (s *Service) Directives() models.DirectiveSet {
	return s.directives
}

func (s *Service) orchestrator(apiKey string) *Orchestrator {
	return NewOrchestrator(s.connector.Connect(apiKey), s.opts, s.logger)
}

func (s *Service) model(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultModel
}

// MessageRequest is a visitor message with its conversation state
type MessageRequest struct {
	Message         string              `json:"message"`
	History         []models.Turn       `json:"history"`
	ArtifactContext string              `json:"artifactContext"`
	APIKey          string              `json:"apiKey"`
	Model           string              `json:"model"`
	Prompts         models.DirectiveSet `json:"prompts"`
	UserInfo        *models.UserInfo    `json:"userInfo,omitempty"`
}

// MessageResponse is returned for a visitor message
type MessageResponse struct {
	Messages              []models.Turn                  `json:"messages"`
	ShouldContinue        bool                           `json:"shouldContinue"`
	NextRole              models.Persona                 `json:"nextRole,omitempty"`
	SuggestedQuestions    []string                       `json:"suggestedQuestions,omitempty"`
	SuggestionsPending    bool                           `json:"suggestionsPending,omitempty"`
	AllSelectedRoles      []models.Persona               `json:"allSelectedRoles"`
	PreGeneratedResponses map[models.Persona]models.Turn `json:"preGeneratedResponses"`
}

// ProcessMessage answers a visitor message with the first selected persona
func (s *Service) ProcessMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	if req.APIKey == "" {
		return nil, required("apiKey")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, required("message")
	}

	result, err := s.orchestrator(req.APIKey).ProcessMessage(ctx, MessageInput{
		Message:    req.Message,
		History:    req.History,
		Context:    req.ArtifactContext,
		Model:      s.model(req.Model),
		Directives: s.directives.Overlay(req.Prompts),
		User:       req.UserInfo,
	})
	if err != nil {
		return nil, err
	}

	resp := &MessageResponse{
		Messages:              result.Turns,
		ShouldContinue:        result.ShouldContinue(),
		SuggestedQuestions:    result.Suggestions,
		SuggestionsPending:    result.SuggestionsPending,
		AllSelectedRoles:      result.Selection,
		PreGeneratedResponses: map[models.Persona]models.Turn{},
	}
	if next, ok := result.NextRole(); ok {
		resp.NextRole = next
	}
	if result.Continuation != nil {
		resp.PreGeneratedResponses = result.Continuation.Cache
	}
	return resp, nil
}

// ContinueRequest asks the next persona of a multi-persona answer to speak
type ContinueRequest struct {
	Role                 models.Persona   `json:"role"`
	History              []models.Turn    `json:"history"`
	ArtifactContext      string           `json:"artifactContext"`
	RolePrompt           string           `json:"rolePrompt"`
	Model                string           `json:"model"`
	APIKey               string           `json:"apiKey"`
	AllSelectedRoles     []models.Persona `json:"allSelectedRoles,omitempty"`
	CurrentRoleIndex     *int             `json:"currentRoleIndex,omitempty"` // index of Role in AllSelectedRoles
	PreGeneratedResponse *models.Turn     `json:"preGeneratedResponse,omitempty"`
	UserInfo             *models.UserInfo `json:"userInfo,omitempty"`
}

// ContinueResponse carries the revealed turn and what comes next
type ContinueResponse struct {
	Message            models.Turn    `json:"message"`
	ShouldContinue     bool           `json:"shouldContinue"`
	NextRole           models.Persona `json:"nextRole,omitempty"`
	SuggestedQuestions []string       `json:"suggestedQuestions,omitempty"`
}

// ContinueWithRole rebuilds the continuation from the request and reveals Role
func (s *Service) ContinueWithRole(ctx context.Context, req ContinueRequest) (*ContinueResponse, error) {
	if req.APIKey == "" {
		return nil, required("apiKey")
	}
	if req.Role == "" {
		return nil, required("role")
	}
	if strings.TrimSpace(req.RolePrompt) == "" {
		return nil, required("rolePrompt")
	}

	state, err := continuationFromRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator(req.APIKey).Continue(ctx, ContinueInput{
		State:     state,
		History:   req.History,
		Context:   req.ArtifactContext,
		Model:     s.model(req.Model),
		Directive: req.RolePrompt,
		User:      req.UserInfo,
	})
	if err != nil {
		return nil, err
	}

	return &ContinueResponse{
		Message:            result.Turn,
		ShouldContinue:     result.ShouldContinue,
		NextRole:           result.NextRole,
		SuggestedQuestions: result.Suggestions,
	}, nil
}

func continuationFromRequest(req ContinueRequest) (*Continuation, error) {
	role, err := models.ParseSpeaker(string(req.Role))
	if err != nil {
		return nil, &ValidationError{Field: "role", Reason: err.Error()}
	}

	state := &Continuation{
		Roles: []models.Persona{role},
		Cache: map[models.Persona]models.Turn{},
	}
	if len(req.AllSelectedRoles) > 0 && req.CurrentRoleIndex != nil {
		cursor := *req.CurrentRoleIndex
		if cursor < 0 || cursor >= len(req.AllSelectedRoles) {
			return nil, &ValidationError{
				Field:  "currentRoleIndex",
				Reason: fmt.Sprintf("%d is outside %d selected roles", cursor, len(req.AllSelectedRoles)),
			}
		}
		roles := make([]models.Persona, len(req.AllSelectedRoles))
		for i, r := range req.AllSelectedRoles {
			p, err := models.ParseSpeaker(string(r))
			if err != nil {
				return nil, &ValidationError{Field: "allSelectedRoles", Reason: err.Error()}
			}
			roles[i] = p
		}
		if roles[cursor] != role {
			return nil, &ValidationError{
				Field:  "currentRoleIndex",
				Reason: fmt.Sprintf("selected role at %d is %s, not %s", cursor, roles[cursor], role),
			}
		}
		state.Roles = roles
		state.Cursor = cursor
	}

	if pre := req.PreGeneratedResponse; pre != nil {
		turn := *pre
		if turn.Speaker == "" {
			turn.Speaker = role
		}
		if turn.Speaker != role {
			return nil, &ValidationError{
				Field:  "preGeneratedResponse",
				Reason: fmt.Sprintf("spoken by %s, not %s", turn.Speaker, role),
			}
		}
		state.Cache[role] = turn
	}
	return state, nil
}

// SuggestRequest polls for follow-up questions
type SuggestRequest struct {
	History         []models.Turn    `json:"history"`
	ArtifactContext string           `json:"artifactContext"`
	Model           string           `json:"model"`
	APIKey          string           `json:"apiKey"`
	UserInfo        *models.UserInfo `json:"userInfo,omitempty"`
}

// SuggestQuestions returns follow-up questions; it only fails on a missing field
func (s *Service) SuggestQuestions(ctx context.Context, req SuggestRequest) ([]string, error) {
	if req.APIKey == "" {
		return nil, required("apiKey")
	}
	if req.History == nil {
		return nil, required("history")
	}

	return s.orchestrator(req.APIKey).Suggester().Suggest(ctx, SuggestInput{
		History: req.History,
		Context: req.ArtifactContext,
		Model:   s.model(req.Model),
		User:    req.UserInfo,
	}), nil
}
