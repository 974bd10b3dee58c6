// ABOUTME: MCP tool handler implementations for the museum guide server
// ABOUTME: Tool failures are returned as error results; only transport problems are Go errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service *chat.Service
	apiKey  string
	logger  zerolog.Logger
}

type messageArgs struct {
	Message         string        `json:"message"`
	History         []models.Turn `json:"history"`
	ArtifactContext string        `json:"artifact_context"`
	Model           string        `json:"model"`
	APIKey          string        `json:"api_key"`
}

type continueArgs struct {
	Role                 models.Persona   `json:"role"`
	History              []models.Turn    `json:"history"`
	ArtifactContext      string           `json:"artifact_context"`
	RolePrompt           string           `json:"role_prompt"`
	AllSelectedRoles     []models.Persona `json:"all_selected_roles"`
	CurrentRoleIndex     *int             `json:"current_role_index"`
	PreGeneratedResponse string           `json:"pre_generated_response"`
	Model                string           `json:"model"`
	APIKey               string           `json:"api_key"`
}

// ProcessMessage handles the process_message tool
func (h *Handlers) ProcessMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := request.RequireString("message"); err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}
	var args messageArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := h.service.ProcessMessage(ctx, chat.MessageRequest{
		Message:         args.Message,
		History:         args.History,
		ArtifactContext: args.ArtifactContext,
		APIKey:          h.key(args.APIKey),
		Model:           args.Model,
	})
	if err != nil {
		return h.toolError("process_message", err), nil
	}
	return jsonResult(resp)
}

// ContinueWithRole handles the continue_with_role tool
func (h *Handlers) ContinueWithRole(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := request.RequireString("role"); err != nil {
		return mcp.NewToolResultError("role argument is required and must be a string"), nil
	}
	var args continueArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rolePrompt := args.RolePrompt
	if rolePrompt == "" {
		rolePrompt = h.service.Directives().For(args.Role)
	}

	req := chat.ContinueRequest{
		Role:             args.Role,
		History:          args.History,
		ArtifactContext:  args.ArtifactContext,
		RolePrompt:       rolePrompt,
		Model:            args.Model,
		APIKey:           h.key(args.APIKey),
		AllSelectedRoles: args.AllSelectedRoles,
		CurrentRoleIndex: args.CurrentRoleIndex,
	}
	if args.PreGeneratedResponse != "" {
		turn := models.NewPersonaTurn(args.Role, args.PreGeneratedResponse)
		req.PreGeneratedResponse = &turn
	}

	resp, err := h.service.ContinueWithRole(ctx, req)
	if err != nil {
		return h.toolError("continue_with_role", err), nil
	}
	return jsonResult(resp)
}

// SuggestQuestions handles the suggest_questions tool
func (h *Handlers) SuggestQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args messageArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	questions, err := h.service.SuggestQuestions(ctx, chat.SuggestRequest{
		History:         args.History,
		ArtifactContext: args.ArtifactContext,
		Model:           args.Model,
		APIKey:          h.key(args.APIKey),
	})
	if err != nil {
		return h.toolError("suggest_questions", err), nil
	}
	return jsonResult(map[string]interface{}{"suggestedQuestions": questions})
}

// DefaultDirectives handles the default_directives tool
func (h *Handlers) DefaultDirectives(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.service.Directives())
}

func (h *Handlers) key(fromArgs string) string {
	if fromArgs != "" {
		return fromArgs
	}
	return h.apiKey
}

func (h *Handlers) toolError(tool string, err error) *mcp.CallToolResult {
	if !chat.IsValidation(err) {
		h.logger.Error().Err(err).Str("tool", tool).Msg("tool call failed")
	}
	return mcp.NewToolResultError(err.Error())
}

// decodeArgs copies the tool arguments into v through their JSON form
func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	raw, err := json.Marshal(request.GetArguments())
	if err != nil {
		return fmt.Errorf("failed to read arguments: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
