// ABOUTME: MCP tool definitions and registration for the museum guide server
// ABOUTME: Defines JSON schemas for the conversation, suggestion and directive tools
package mcp

import (
	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/logging"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

var historySchema = map[string]interface{}{
	"type":        "array",
	"description": "Conversation so far, oldest first. Each turn has role (user, artifact, author, guide, system) and content.",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"role":    map[string]interface{}{"type": "string"},
			"content": map[string]interface{}{"type": "string"},
		},
		"required": []string{"role", "content"},
	},
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// RegisterTools registers all MCP tools with the server. apiKey is used when a
// call does not carry its own api_key argument.
func RegisterTools(server *mcpserver.MCPServer, service *chat.Service, apiKey string, logger zerolog.Logger) *Handlers {
	handlers := &Handlers{
		service: service,
		apiKey:  apiKey,
		logger:  logging.Component(logger, "mcp"),
	}

	// 1. process_message - answer a visitor message with the first selected persona
	server.AddTool(mcp.Tool{
		Name:        "process_message",
		Description: "Answer a museum visitor's message. A manager picks which personas (artifact, author, guide) respond; the first reply is returned and the others are pre-generated for continue_with_role.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message":          stringProp("The visitor's message"),
				"history":          historySchema,
				"artifact_context": stringProp("Background on the artifact being viewed"),
				"model":            stringProp("Model id (default: configured model)"),
				"api_key":          stringProp("OpenAI API key (default: OPENAI_API_KEY)"),
			},
			Required: []string{"message"},
		},
	}, handlers.ProcessMessage)

	// 2. continue_with_role - reveal the next persona of a multi-persona answer
	server.AddTool(mcp.Tool{
		Name:        "continue_with_role",
		Description: "Reveal the next persona's reply. Pass the pre-generated response from process_message to avoid a new completion.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"role":               stringProp("Persona to speak: artifact, author or guide"),
				"history":            historySchema,
				"artifact_context":   stringProp("Background on the artifact being viewed"),
				"role_prompt":        stringProp("Directive for the persona (default: server directive)"),
				"all_selected_roles": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "allSelectedRoles from process_message"},
				"current_role_index": map[string]interface{}{"type": "number", "description": "Index of role within all_selected_roles"},
				"pre_generated_response": map[string]interface{}{
					"type":        "string",
					"description": "Cached reply text for role, from preGeneratedResponses",
				},
				"model":   stringProp("Model id (default: configured model)"),
				"api_key": stringProp("OpenAI API key (default: OPENAI_API_KEY)"),
			},
			Required: []string{"role"},
		},
	}, handlers.ContinueWithRole)

	// 3. suggest_questions - follow-up questions for the visitor
	server.AddTool(mcp.Tool{
		Name:        "suggest_questions",
		Description: "Suggest up to four follow-up questions the visitor might ask next.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"history":          historySchema,
				"artifact_context": stringProp("Background on the artifact being viewed"),
				"model":            stringProp("Model id (default: configured model)"),
				"api_key":          stringProp("OpenAI API key (default: OPENAI_API_KEY)"),
			},
			Required: []string{"history"},
		},
	}, handlers.SuggestQuestions)

	// 4. default_directives - the server's persona directives
	server.AddTool(mcp.Tool{
		Name:        "default_directives",
		Description: "Return the default directive for each persona and the manager.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.DefaultDirectives)

	return handlers
}
