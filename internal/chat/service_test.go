// ABOUTME: Tests for request validation, wire shapes and the debug tuning flows
// ABOUTME: Validation failures must never reach the gateway
package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(g *stubGateway) *Service {
	connector := llm.ConnectorFunc(func(apiKey string) llm.Completer { return g })
	return NewService(connector, testDirectives(), "gpt-4.1", DefaultOptions(), testLogger())
}

func intPtr(i int) *int { return &i }

func TestService_Validation(t *testing.T) {
	g := newStub("guide")
	svc := newTestService(g)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"message without key", func() error {
			_, err := svc.ProcessMessage(ctx, MessageRequest{Message: "你好"})
			return err
		}, "apiKey"},
		{"message without text", func() error {
			_, err := svc.ProcessMessage(ctx, MessageRequest{APIKey: "sk"})
			return err
		}, "message"},
		{"continue without role", func() error {
			_, err := svc.ContinueWithRole(ctx, ContinueRequest{APIKey: "sk", RolePrompt: "p"})
			return err
		}, "role"},
		{"continue without directive", func() error {
			_, err := svc.ContinueWithRole(ctx, ContinueRequest{APIKey: "sk", Role: models.PersonaGuide})
			return err
		}, "rolePrompt"},
		{"continue with unknown role", func() error {
			_, err := svc.ContinueWithRole(ctx, ContinueRequest{APIKey: "sk", Role: "curator", RolePrompt: "p"})
			return err
		}, "role"},
		{"continue index out of range", func() error {
			_, err := svc.ContinueWithRole(ctx, ContinueRequest{
				APIKey: "sk", Role: models.PersonaGuide, RolePrompt: "p",
				AllSelectedRoles: []models.Persona{models.PersonaGuide}, CurrentRoleIndex: intPtr(3),
			})
			return err
		}, "currentRoleIndex"},
		{"continue index points elsewhere", func() error {
			_, err := svc.ContinueWithRole(ctx, ContinueRequest{
				APIKey: "sk", Role: models.PersonaGuide, RolePrompt: "p",
				AllSelectedRoles: []models.Persona{models.PersonaArtifact, models.PersonaAuthor}, CurrentRoleIndex: intPtr(1),
			})
			return err
		}, "currentRoleIndex"},
		{"continue with another persona's reply", func() error {
			_, err := svc.ContinueWithRole(ctx, ContinueRequest{
				APIKey: "sk", Role: models.PersonaGuide, RolePrompt: "p",
				PreGeneratedResponse: &models.Turn{Speaker: models.PersonaAuthor, Text: "x"},
			})
			return err
		}, "preGeneratedResponse"},
		{"suggest without history", func() error {
			_, err := svc.SuggestQuestions(ctx, SuggestRequest{APIKey: "sk"})
			return err
		}, "history"},
		{"role chat without message", func() error {
			_, err := svc.ChatWithRole(ctx, RoleChatRequest{APIKey: "sk", Role: models.PersonaGuide, RolePrompt: "p"})
			return err
		}, "message"},
		{"adjust without request", func() error {
			_, err := svc.AdjustDirective(ctx, AdjustRequest{APIKey: "sk", Role: models.PersonaGuide, CurrentPrompt: "p"})
			return err
		}, "userRequest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Zero(t, g.total(), "validation failures must not call the gateway")
}

func TestService_ProcessMessageWireShape(t *testing.T) {
	g := newStub("guide,artifact")
	svc := newTestService(g)

	resp, err := svc.ProcessMessage(context.Background(), MessageRequest{
		Message:         "介绍一下这个文物的历史",
		History:         []models.Turn{},
		ArtifactContext: "西周青铜鼎",
		APIKey:          "sk-test",
	})
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	assert.Equal(t, true, wire["shouldContinue"])
	assert.Equal(t, "artifact", wire["nextRole"])
	assert.Equal(t, []any{"guide", "artifact"}, wire["allSelectedRoles"])

	messages := wire["messages"].([]any)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "guide", first["role"])
	assert.Equal(t, "导览员的回答", first["content"])

	pre := wire["preGeneratedResponses"].(map[string]any)
	artifact := pre["artifact"].(map[string]any)
	assert.Equal(t, "文物的回答", artifact["content"])
	assert.Len(t, wire["suggestedQuestions"], 2)
}

func TestService_ProcessMessageFillsDirectivesAndModel(t *testing.T) {
	g := newStub("author")
	svc := newTestService(g)

	_, err := svc.ProcessMessage(context.Background(), MessageRequest{
		Message: "谁做的？",
		APIKey:  "sk-test",
		Prompts: models.DirectiveSet{Guide: "自定义导览员"},
	})
	require.NoError(t, err)

	reply := g.requests(kindReply)[0]
	assert.Equal(t, "gpt-4.1", reply.Model)
	assert.Contains(t, reply.System, "你是铸造它的工匠", "missing directives come from the server defaults")
}

func TestService_SingleSelectionHasEmptyLookahead(t *testing.T) {
	svc := newTestService(newStub("guide"))

	resp, err := svc.ProcessMessage(context.Background(), MessageRequest{Message: "你好", APIKey: "sk"})
	require.NoError(t, err)

	assert.False(t, resp.ShouldContinue)
	assert.Empty(t, resp.NextRole)
	assert.NotNil(t, resp.PreGeneratedResponses)
	assert.Empty(t, resp.PreGeneratedResponses)
}

func TestService_ContinueWithPreGeneratedReply(t *testing.T) {
	g := newStub("")
	svc := newTestService(g)
	pre := models.NewPersonaTurn(models.PersonaArtifact, "我已经三千岁了")

	resp, err := svc.ContinueWithRole(context.Background(), ContinueRequest{
		Role:                 models.PersonaArtifact,
		History:              []models.Turn{models.NewPersonaTurn(models.PersonaGuide, "欢迎")},
		RolePrompt:           "你是一件青铜器",
		APIKey:               "sk",
		AllSelectedRoles:     []models.Persona{models.PersonaGuide, models.PersonaArtifact, models.PersonaAuthor},
		CurrentRoleIndex:     intPtr(1),
		PreGeneratedResponse: &pre,
	})
	require.NoError(t, err)

	assert.Equal(t, pre, resp.Message)
	assert.True(t, resp.ShouldContinue)
	assert.Equal(t, models.PersonaAuthor, resp.NextRole)
	assert.Zero(t, g.count(kindReply))
	assert.Equal(t, 1, g.count(kindSuggest))
}

func TestService_ContinueWithoutStateGenerates(t *testing.T) {
	g := newStub("")
	svc := newTestService(g)

	resp, err := svc.ContinueWithRole(context.Background(), ContinueRequest{
		Role:       models.PersonaAuthor,
		RolePrompt: "你是铸造它的工匠",
		APIKey:     "sk",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PersonaAuthor, resp.Message.Speaker)
	assert.False(t, resp.ShouldContinue)
	assert.Equal(t, 1, g.count(kindReply))
}

func TestService_SuggestQuestionsAcceptsEmptyHistory(t *testing.T) {
	svc := newTestService(newStub(""))

	got, err := svc.SuggestQuestions(context.Background(), SuggestRequest{APIKey: "sk", History: []models.Turn{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"这是谁做的？", "介绍一下材质"}, got)
}

func TestService_ChatWithRole(t *testing.T) {
	g := newStub("")
	svc := newTestService(g)

	got, err := svc.ChatWithRole(context.Background(), RoleChatRequest{
		Role:       models.PersonaArtifact,
		Message:    "你好",
		RolePrompt: "你是一件青铜器",
		APIKey:     "sk",
	})
	require.NoError(t, err)
	assert.Equal(t, "文物的回答", got)
	assert.Zero(t, g.count(kindSelect), "role chat bypasses selection")
}

func TestService_ChatWithRolePropagatesProviderErrors(t *testing.T) {
	g := newStub("")
	g.replyErr[models.PersonaGuide] = &llm.ProviderError{StatusCode: 401, Message: "Incorrect API key"}
	svc := newTestService(g)

	_, err := svc.ChatWithRole(context.Background(), RoleChatRequest{
		Role: models.PersonaGuide, Message: "你好", RolePrompt: "你是导览员", APIKey: "sk",
	})
	var perr *llm.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.False(t, IsValidation(err))
}

func TestService_AdjustDirective(t *testing.T) {
	g := newStub("")
	g.adjusted = "\n  你是一位幽默的导览员，喜欢讲笑话。  \n"
	svc := newTestService(g)

	resp, err := svc.AdjustDirective(context.Background(), AdjustRequest{
		Role:            models.PersonaGuide,
		CurrentPrompt:   "你是导览员",
		UserRequest:     "更幽默一点",
		ArtifactContext: "西周青铜鼎",
		APIKey:          "sk",
	})
	require.NoError(t, err)

	assert.Equal(t, "你是一位幽默的导览员，喜欢讲笑话。", resp.AdjustedPrompt)
	assert.Equal(t, models.PersonaGuide, resp.Adjustment.Persona)
	assert.Equal(t, "你是导览员", resp.Adjustment.Before)
	assert.Equal(t, resp.AdjustedPrompt, resp.Adjustment.After)
	assert.Equal(t, "更幽默一点", resp.UserRequest)

	req := g.requests(kindAdjust)[0]
	assert.Contains(t, req.Messages[0].Text, "当前角色：导览员")
	assert.Contains(t, req.Messages[0].Text, "更幽默一点")
}

func TestService_AdjustDirectivePropagatesProviderErrors(t *testing.T) {
	want := &llm.ProviderError{StatusCode: 429, Message: "quota"}
	connector := llm.ConnectorFunc(func(string) llm.Completer {
		return llm.CompleterFunc(func(context.Context, llm.Request) (string, error) { return "", want })
	})
	svc := NewService(connector, testDirectives(), "gpt-4.1", DefaultOptions(), testLogger())

	_, err := svc.AdjustDirective(context.Background(), AdjustRequest{
		Role: models.PersonaAuthor, CurrentPrompt: "p", UserRequest: "r", APIKey: "sk",
	})
	assert.ErrorIs(t, err, want)
}
