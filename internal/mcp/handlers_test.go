// ABOUTME: Tests for the MCP tool handlers against a scripted completer
// ABOUTME: Covers argument validation, credential fallback and continuation caching
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/config"
	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

type recorder struct {
	mu    sync.Mutex
	keys  []string
	calls int
}

func (r *recorder) connector() llm.Connector {
	return llm.ConnectorFunc(func(apiKey string) llm.Completer {
		r.mu.Lock()
		r.keys = append(r.keys, apiKey)
		r.mu.Unlock()
		return llm.CompleterFunc(func(_ context.Context, req llm.Request) (string, error) {
			r.mu.Lock()
			r.calls++
			r.mu.Unlock()
			switch {
			case strings.Contains(req.System, "只返回角色名称"):
				return "artifact,author", nil
			case req.System != "":
				return "我是一尊唐三彩马。", nil
			}
			return "它有多重？\n在哪里出土？", nil
		})
	})
}

func setupHandlers(t *testing.T, rec *recorder, apiKey string) *Handlers {
	t.Helper()
	svc := chat.NewService(rec.connector(), config.DefaultDirectives(), config.DefaultModel, chat.DefaultOptions(), zerolog.Nop())
	server := mcpserver.NewMCPServer("test", "0.0.0")
	return RegisterTools(server, svc, apiKey, zerolog.Nop())
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestProcessMessageTool(t *testing.T) {
	rec := &recorder{}
	h := setupHandlers(t, rec, "sk-env")

	result, err := h.ProcessMessage(context.Background(), callRequest("process_message", map[string]interface{}{
		"message":          "这匹马是什么时候做的？",
		"artifact_context": "唐三彩马",
		"history": []interface{}{
			map[string]interface{}{"role": "guide", "content": "欢迎！"},
		},
	}))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("ProcessMessage() returned error result: %s", resultText(t, result))
	}

	var resp chat.MessageResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("result is not a MessageResponse: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("messages = %d, want history plus one reply", len(resp.Messages))
	}
	if resp.NextRole != models.PersonaAuthor {
		t.Errorf("NextRole = %q, want author", resp.NextRole)
	}
	if _, ok := resp.PreGeneratedResponses[models.PersonaAuthor]; !ok {
		t.Error("author reply should be pre-generated")
	}

	for _, k := range rec.keys {
		if k != "sk-env" {
			t.Errorf("connected with key %q, want the configured key", k)
		}
	}
}

func TestProcessMessageToolPrefersArgumentKey(t *testing.T) {
	rec := &recorder{}
	h := setupHandlers(t, rec, "sk-env")

	_, err := h.ProcessMessage(context.Background(), callRequest("process_message", map[string]interface{}{
		"message": "你好",
		"api_key": "sk-arg",
	}))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if len(rec.keys) == 0 || rec.keys[0] != "sk-arg" {
		t.Errorf("keys = %v, want sk-arg", rec.keys)
	}
}

func TestProcessMessageToolErrors(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		args   map[string]interface{}
		want   string
	}{
		{"missing message", "sk", map[string]interface{}{}, "message argument is required"},
		{"no credential", "", map[string]interface{}{"message": "你好"}, "apiKey is required"},
		{"bad history", "sk", map[string]interface{}{"message": "你好", "history": "oops"}, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			h := setupHandlers(t, rec, tt.apiKey)

			result, err := h.ProcessMessage(context.Background(), callRequest("process_message", tt.args))
			if err != nil {
				t.Fatalf("ProcessMessage() error = %v", err)
			}
			if !result.IsError {
				t.Fatal("expected an error result")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("error = %q, want it to contain %q", text, tt.want)
			}
			if rec.calls != 0 {
				t.Errorf("completer called %d times, want 0", rec.calls)
			}
		})
	}
}

func TestContinueWithRoleToolUsesCachedReply(t *testing.T) {
	rec := &recorder{}
	h := setupHandlers(t, rec, "sk")

	result, err := h.ContinueWithRole(context.Background(), callRequest("continue_with_role", map[string]interface{}{
		"role":                   "author",
		"all_selected_roles":     []interface{}{"artifact", "author"},
		"current_role_index":     1,
		"pre_generated_response": "我是烧制它的工匠。",
		"history": []interface{}{
			map[string]interface{}{"role": "user", "content": "谁做的？"},
			map[string]interface{}{"role": "artifact", "content": "我是一尊唐三彩马。"},
		},
	}))
	if err != nil {
		t.Fatalf("ContinueWithRole() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("ContinueWithRole() returned error result: %s", resultText(t, result))
	}

	var resp chat.ContinueResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("result is not a ContinueResponse: %v", err)
	}
	if resp.Message.Text != "我是烧制它的工匠。" || resp.Message.Speaker != models.PersonaAuthor {
		t.Errorf("message = %+v, want the cached author reply", resp.Message)
	}
	if resp.ShouldContinue {
		t.Error("ShouldContinue should be false after the last persona")
	}
	// the suggestion refresh is the only completion
	if rec.calls != 1 {
		t.Errorf("completer called %d times, want 1", rec.calls)
	}
}

func TestContinueWithRoleToolRejectsUnknownRole(t *testing.T) {
	h := setupHandlers(t, &recorder{}, "sk")

	result, err := h.ContinueWithRole(context.Background(), callRequest("continue_with_role", map[string]interface{}{
		"role":        "curator",
		"role_prompt": "你是馆长",
	}))
	if err != nil {
		t.Fatalf("ContinueWithRole() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for an unknown role")
	}
}

func TestSuggestQuestionsTool(t *testing.T) {
	h := setupHandlers(t, &recorder{}, "sk")

	result, err := h.SuggestQuestions(context.Background(), callRequest("suggest_questions", map[string]interface{}{
		"history": []interface{}{
			map[string]interface{}{"role": "user", "content": "这是什么？"},
		},
	}))
	if err != nil {
		t.Fatalf("SuggestQuestions() error = %v", err)
	}

	var resp struct {
		SuggestedQuestions []string `json:"suggestedQuestions"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"它有多重？", "在哪里出土？"}
	if len(resp.SuggestedQuestions) != len(want) {
		t.Fatalf("questions = %v, want %v", resp.SuggestedQuestions, want)
	}
	for i := range want {
		if resp.SuggestedQuestions[i] != want[i] {
			t.Errorf("question[%d] = %q, want %q", i, resp.SuggestedQuestions[i], want[i])
		}
	}
}

func TestDefaultDirectivesTool(t *testing.T) {
	h := setupHandlers(t, &recorder{}, "")

	result, err := h.DefaultDirectives(context.Background(), callRequest("default_directives", nil))
	if err != nil {
		t.Fatalf("DefaultDirectives() error = %v", err)
	}

	var set models.DirectiveSet
	if err := json.Unmarshal([]byte(resultText(t, result)), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if set != config.DefaultDirectives() {
		t.Error("DefaultDirectives tool should return the service directives")
	}
}
