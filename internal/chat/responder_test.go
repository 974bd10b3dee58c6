// ABOUTME: Tests for persona prompt construction, history windowing and apology fallback
// ABOUTME: Inspects the exact request the responder hands to the gateway
package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond_WindowsLastSixTurns(t *testing.T) {
	g := newStub("")
	r := NewResponder(g, DefaultHistoryWindow, testLogger())
	history := makeHistory(10)

	turn := r.Respond(context.Background(), RespondInput{
		Persona:   models.PersonaArtifact,
		Utterance: "你多大了？",
		History:   history,
		Context:   "西周青铜鼎",
		Directive: "你是一件青铜器",
		Model:     "gpt-4.1",
	})
	assert.Equal(t, models.PersonaArtifact, turn.Speaker)
	assert.Equal(t, "文物的回答", turn.Text)

	reqs := g.requests(kindReply)
	require.Len(t, reqs, 1)
	req := reqs[0]

	for i := 1; i <= 4; i++ {
		assert.NotContains(t, req.System, history[i-1].Text, "turn %d is outside the window", i)
	}
	for i := 5; i <= 10; i++ {
		assert.Contains(t, req.System, history[i-1].Text, "turn %d is inside the window", i)
	}

	require.Len(t, req.Messages, 7)
	assert.Equal(t, history[4].Text, req.Messages[0].Text)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Text: "你多大了？"}, req.Messages[6])
	assert.Equal(t, "gpt-4.1", req.Model)
}

func TestRespond_MapsPersonasToAssistant(t *testing.T) {
	g := newStub("")
	r := NewResponder(g, DefaultHistoryWindow, testLogger())
	history := []models.Turn{
		{Speaker: models.PersonaUser, Text: "你好"},
		{Speaker: models.PersonaArtifact, Text: "我是鼎"},
		{Speaker: models.PersonaAuthor, Text: "我铸造了它"},
		{Speaker: models.PersonaGuide, Text: "欢迎参观"},
		{Speaker: models.PersonaSystem, Text: "会话开始"},
	}

	r.Respond(context.Background(), RespondInput{
		Persona:   models.PersonaGuide,
		Utterance: "继续",
		History:   history,
		Directive: "你是导览员",
	})

	req := g.requests(kindReply)[0]
	want := []llm.Role{llm.RoleUser, llm.RoleAssistant, llm.RoleAssistant, llm.RoleAssistant, llm.RoleSystem, llm.RoleUser}
	require.Len(t, req.Messages, len(want))
	for i, role := range want {
		assert.Equal(t, role, req.Messages[i].Role, "message %d", i)
	}
}

func TestRespond_SystemPromptLayout(t *testing.T) {
	g := newStub("")
	r := NewResponder(g, DefaultHistoryWindow, testLogger())

	r.Respond(context.Background(), RespondInput{
		Persona:   models.PersonaAuthor,
		Utterance: "你为什么做它？",
		History:   []models.Turn{{Speaker: models.PersonaUser, Text: "这是什么"}},
		Context:   "西周青铜鼎",
		Directive: "你是铸造它的工匠",
		User:      &models.UserInfo{Name: "小明"},
	})

	system := g.requests(kindReply)[0].System
	assert.True(t, strings.HasPrefix(system, "你是铸造它的工匠\n\n当前文物的历史背景：\n西周青铜鼎"))
	assert.Contains(t, system, "用户名字：小明")
	assert.Contains(t, system, "最近的对话历史：\n用户: 这是什么")
	assert.Contains(t, system, "请以文物的作者的身份")
	assert.Contains(t, system, "50-100字")

	// persona directive, context and history must appear in that order
	iDirective := strings.Index(system, "你是铸造它的工匠")
	iContext := strings.Index(system, "西周青铜鼎")
	iHistory := strings.Index(system, "最近的对话历史")
	iInstruction := strings.Index(system, "请以")
	assert.True(t, iDirective < iContext && iContext < iHistory && iHistory < iInstruction)
}

func TestRespond_NoHistorySection(t *testing.T) {
	g := newStub("")
	r := NewResponder(g, DefaultHistoryWindow, testLogger())

	r.Respond(context.Background(), RespondInput{Persona: models.PersonaGuide, Utterance: "你好", Directive: "你是导览员"})

	req := g.requests(kindReply)[0]
	assert.NotContains(t, req.System, "最近的对话历史")
	assert.NotContains(t, req.System, "用户名字")
	require.Len(t, req.Messages, 1)
}

func TestRespond_FailureReturnsApology(t *testing.T) {
	r := NewResponder(llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return "", llm.ErrAuthentication
	}), DefaultHistoryWindow, testLogger())

	turn := r.Respond(context.Background(), RespondInput{Persona: models.PersonaAuthor, Utterance: "你好"})
	assert.Equal(t, models.PersonaAuthor, turn.Speaker)
	assert.Equal(t, "抱歉，我暂时无法回复。", turn.Text)
	assert.NotEmpty(t, turn.ID)

	custom := r.Respond(context.Background(), RespondInput{Persona: models.PersonaAuthor, Utterance: "你好", Apology: "稍后再聊"})
	assert.Equal(t, "稍后再聊", custom.Text)
}

func TestGenerate_PropagatesErrors(t *testing.T) {
	want := &llm.ProviderError{StatusCode: 429, Message: "quota"}
	r := NewResponder(llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return "", want
	}), DefaultHistoryWindow, testLogger())

	_, err := r.Generate(context.Background(), RespondInput{Persona: models.PersonaGuide, Utterance: "你好"})
	var perr *llm.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 429, perr.StatusCode)
}
