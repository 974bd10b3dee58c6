// ABOUTME: Tests for the owned conversation session used by the interactive CLI
// ABOUTME: Covers history growth, continuation supersession and learned visitor names
package chat

import (
	"context"
	"testing"

	"github.com/harper/museum-guide/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(g *stubGateway) *Session {
	return NewSession(newTestOrchestrator(g, DefaultOptions()), SessionConfig{
		Context:    "西周青铜鼎",
		Model:      "gpt-4.1",
		Directives: testDirectives(),
	})
}

func TestSession_SendAndContinue(t *testing.T) {
	g := newStub("guide,artifact,author")
	s := newTestSession(g)

	res, err := s.Send(context.Background(), "介绍一下这个文物的历史")
	require.NoError(t, err)
	assert.Equal(t, models.PersonaGuide, res.Reply.Speaker)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, models.PersonaUser, history[0].Speaker)
	assert.Equal(t, "介绍一下这个文物的历史", history[0].Text)
	assert.Equal(t, models.PersonaGuide, history[1].Speaker)

	next, ok := s.NextRole()
	require.True(t, ok)
	assert.Equal(t, models.PersonaArtifact, next)

	for s.Pending() {
		_, err := s.Continue(context.Background())
		require.NoError(t, err)
	}

	var speakers []models.Persona
	for _, turn := range s.History() {
		speakers = append(speakers, turn.Speaker)
	}
	assert.Equal(t, []models.Persona{
		models.PersonaUser, models.PersonaGuide, models.PersonaArtifact, models.PersonaAuthor,
	}, speakers)
	assert.Equal(t, 3, g.count(kindReply), "continuation is served from the lookahead")

	_, err = s.Continue(context.Background())
	assert.ErrorIs(t, err, ErrNoContinuation)
}

func TestSession_NewMessageSupersedesContinuation(t *testing.T) {
	g := newStub("guide,artifact")
	s := newTestSession(g)

	_, err := s.Send(context.Background(), "介绍一下")
	require.NoError(t, err)
	require.True(t, s.Pending())

	g.selection = "author"
	_, err = s.Send(context.Background(), "谁做的？")
	require.NoError(t, err)

	assert.False(t, s.Pending())
	assert.Len(t, s.History(), 4)
	_, err = s.Continue(context.Background())
	assert.ErrorIs(t, err, ErrNoContinuation)
}

func TestSession_HistoryIsACopy(t *testing.T) {
	s := newTestSession(newStub("guide"))
	_, err := s.Send(context.Background(), "你好")
	require.NoError(t, err)

	h := s.History()
	h[0].Text = "changed"
	assert.Equal(t, "你好", s.History()[0].Text)
}

func TestSession_LearnsVisitorName(t *testing.T) {
	g := newStub("guide")
	s := newTestSession(g)

	_, err := s.Send(context.Background(), "你好，我叫李华")
	require.NoError(t, err)
	assert.Equal(t, "李华", s.User().Name)

	_, err = s.Send(context.Background(), "它有多重？")
	require.NoError(t, err)

	replies := g.requests(kindReply)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].System, "用户名字：李华")
	assert.Contains(t, replies[1].System, "用户名字：李华")
}

func TestSession_RejectsEmptyMessage(t *testing.T) {
	g := newStub("guide")
	s := newTestSession(g)

	_, err := s.Send(context.Background(), "  ")
	assert.True(t, IsValidation(err))
	assert.Empty(t, s.History())
	assert.Zero(t, g.total())
}

func TestSession_Suggestions(t *testing.T) {
	s := newTestSession(newStub("guide"))
	_, err := s.Send(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, []string{"这是谁做的？", "介绍一下材质"}, s.Suggestions())
}
