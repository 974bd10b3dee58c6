// ABOUTME: Tests for persona selection parsing and its guide fallback
// ABOUTME: Table-driven over the shapes of text the manager prompt tends to produce
package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoles(t *testing.T) {
	tests := []struct {
		raw     string
		want    []models.Persona
		wantErr bool
	}{
		{"guide", []models.Persona{models.PersonaGuide}, false},
		{"author,artifact", []models.Persona{models.PersonaAuthor, models.PersonaArtifact}, false},
		{" Author , ARTIFACT ", []models.Persona{models.PersonaAuthor, models.PersonaArtifact}, false},
		{"guide,guide", []models.Persona{models.PersonaGuide, models.PersonaGuide}, false},
		{"guide,user,system,artifact", []models.Persona{models.PersonaGuide, models.PersonaArtifact}, false},
		{"author,,guide", []models.Persona{models.PersonaAuthor, models.PersonaGuide}, false},
		{"author，guide", nil, true},
		{"导览员", nil, true},
		{"", nil, true},
		{"user", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRoles(tt.raw)
			if tt.wantErr {
				var perr *ParseError
				require.True(t, errors.As(err, &perr), "ParseRoles(%q) error = %v, want *ParseError", tt.raw, err)
				assert.Equal(t, "roles", perr.Kind)
				assert.Equal(t, tt.raw, perr.Raw)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_PassesManagerPrompt(t *testing.T) {
	g := newStub("author")
	s := NewSelector(g, testLogger())

	got := s.Select(context.Background(), "谁做的？", "西周青铜鼎", "gpt-4.1", "")
	assert.Equal(t, []models.Persona{models.PersonaAuthor}, got)

	req := g.requests(kindSelect)[0]
	assert.Contains(t, req.System, managerHeader)
	assert.Contains(t, req.System, "用户问题：谁做的？")
	assert.Contains(t, req.System, "历史背景：西周青铜鼎")
	assert.Equal(t, []llm.Message{{Role: llm.RoleUser, Text: "谁做的？"}}, req.Messages)
}

func TestSelect_CustomManagerDirective(t *testing.T) {
	g := newStub("guide")
	s := NewSelector(g, testLogger())

	s.Select(context.Background(), "你好", "", "gpt-4.1", "你是调度员，偏向让文物发言。")

	req := g.requests(kindSelect)[0]
	assert.Contains(t, req.System, "你是调度员，偏向让文物发言。")
	assert.NotContains(t, req.System, managerHeader)
	assert.Contains(t, req.System, "只返回角色名称")
}

func TestSelect_FallbackIsDeterministic(t *testing.T) {
	failing := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return "", &llm.ProviderError{Message: "model not found"}
	})
	garbage := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return "I think the curator should answer.", nil
	})

	for _, c := range []llm.Completer{failing, garbage} {
		s := NewSelector(c, testLogger())
		for i := 0; i < 3; i++ {
			assert.Equal(t, []models.Persona{models.PersonaGuide}, s.Select(context.Background(), "你好", "", "gpt-4.1", ""))
		}
	}
}
