// ABOUTME: Debug-mode flows: chatting with a single persona and rewriting a persona directive
// ABOUTME: Unlike the main flow, provider errors here reach the caller unchanged
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/models"
)

// RoleChatRequest talks to one persona directly, bypassing selection
type RoleChatRequest struct {
	Role            models.Persona   `json:"role"`
	Message         string           `json:"message"`
	History         []models.Turn    `json:"history"`
	ArtifactContext string           `json:"artifactContext"`
	RolePrompt      string           `json:"rolePrompt"`
	Model           string           `json:"model"`
	APIKey          string           `json:"apiKey"`
	UserInfo        *models.UserInfo `json:"userInfo,omitempty"`
}

// ChatWithRole returns the persona's reply text
func (s *Service) ChatWithRole(ctx context.Context, req RoleChatRequest) (string, error) {
	switch {
	case req.APIKey == "":
		return "", required("apiKey")
	case req.Role == "":
		return "", required("role")
	case strings.TrimSpace(req.RolePrompt) == "":
		return "", required("rolePrompt")
	case strings.TrimSpace(req.Message) == "":
		return "", required("message")
	}
	role, err := models.ParseSpeaker(string(req.Role))
	if err != nil {
		return "", &ValidationError{Field: "role", Reason: err.Error()}
	}

	return s.orchestrator(req.APIKey).Responder().Generate(ctx, RespondInput{
		Persona:   role,
		Utterance: req.Message,
		History:   req.History,
		Context:   req.ArtifactContext,
		Directive: req.RolePrompt,
		Model:     s.model(req.Model),
		User:      req.UserInfo,
	})
}

// AdjustRequest asks the model to rewrite a persona directive
type AdjustRequest struct {
	Role            models.Persona `json:"role"`
	CurrentPrompt   string         `json:"currentPrompt"`
	UserRequest     string         `json:"userRequest"`
	ArtifactContext string         `json:"artifactContext"`
	Model           string         `json:"model"`
	APIKey          string         `json:"apiKey"`
}

// AdjustResponse carries the rewritten directive and its tuning record
type AdjustResponse struct {
	AdjustedPrompt string                     `json:"adjustedPrompt"`
	Role           models.Persona             `json:"role"`
	UserRequest    string                     `json:"userRequest"`
	Adjustment     models.DirectiveAdjustment `json:"adjustment"`
}

// AdjustDirective rewrites CurrentPrompt according to UserRequest
func (s *Service) AdjustDirective(ctx context.Context, req AdjustRequest) (*AdjustResponse, error) {
	switch {
	case req.APIKey == "":
		return nil, required("apiKey")
	case req.Role == "":
		return nil, required("role")
	case strings.TrimSpace(req.CurrentPrompt) == "":
		return nil, required("currentPrompt")
	case strings.TrimSpace(req.UserRequest) == "":
		return nil, required("userRequest")
	}
	role, err := models.ParseSpeaker(string(req.Role))
	if err != nil {
		return nil, &ValidationError{Field: "role", Reason: err.Error()}
	}

	raw, err := s.connector.Connect(req.APIKey).Complete(ctx, llm.Request{
		Model: s.model(req.Model),
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Text: adjustmentPrompt(role, req.CurrentPrompt, req.UserRequest, req.ArtifactContext),
		}},
	})
	if err != nil {
		return nil, err
	}

	adjusted := strings.TrimSpace(raw)
	s.logger.Info().Str("component", "tuning").Str("persona", role.String()).Msg("directive adjusted")

	return &AdjustResponse{
		AdjustedPrompt: adjusted,
		Role:           role,
		UserRequest:    req.UserRequest,
		Adjustment: models.DirectiveAdjustment{
			Persona:   role,
			Request:   req.UserRequest,
			Before:    req.CurrentPrompt,
			After:     adjusted,
			CreatedAt: time.Now().UTC(),
		},
	}, nil
}
