// ABOUTME: Export of a debug-mode tuning session
// ABOUTME: Supports a pair of Markdown documents (prompt log, chat log) or a single YAML document
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/museum-guide/internal/models"
	"gopkg.in/yaml.v3"
)

// Format selects the export rendering
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts markdown, md, yaml or yml
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use markdown or yaml)", s)
}

// DebugSession is everything recorded while tuning the three persona directives
type DebugSession struct {
	ArtifactContext string                           `json:"artifactContext" yaml:"artifact_context"`
	Adjustments     []models.DirectiveAdjustment     `json:"adjustments" yaml:"adjustments"`
	FinalPrompts    models.DirectiveSet              `json:"finalPrompts" yaml:"final_prompts"`
	ChatHistories   map[models.Persona][]models.Turn `json:"chatHistories" yaml:"chat_histories"`
}

// ExportData is the YAML document layout
type ExportData struct {
	Version    string       `yaml:"version"`
	ExportedAt string       `yaml:"exported_at"`
	Tool       string       `yaml:"tool"`
	Session    DebugSession `yaml:"session"`
}

// Document is one rendered export file
type Document struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Render produces the documents for session in format, stamped with now
func Render(session DebugSession, format Format, now time.Time) ([]Document, error) {
	stamp := now.UnixMilli()

	switch format {
	case FormatMarkdown:
		return []Document{
			{
				Name:        fmt.Sprintf("prompt-debug-%d.md", stamp),
				ContentType: "text/markdown; charset=utf-8",
				Content:     renderPromptLog(session, now),
			},
			{
				Name:        fmt.Sprintf("chat-history-%d.md", stamp),
				ContentType: "text/markdown; charset=utf-8",
				Content:     renderChatLog(session, now),
			},
		}, nil

	case FormatYAML:
		data := ExportData{
			Version:    "1.0",
			ExportedAt: now.Format(time.RFC3339),
			Tool:       "museum-guide",
			Session:    session,
		}
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return []Document{{
			Name:        fmt.Sprintf("debug-session-%d.yaml", stamp),
			ContentType: "application/yaml",
			Content:     buf.String(),
		}}, nil
	}

	return nil, fmt.Errorf("unsupported export format %q", format)
}

// WriteFiles writes docs into dir and returns their paths
func WriteFiles(dir string, docs []Document) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Name)
		if err := os.WriteFile(path, []byte(doc.Content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", doc.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// localTime matches how the browser client printed timestamps
func localTime(t time.Time) string {
	return t.Local().Format("2006/1/2 15:04:05")
}

func renderPromptLog(s DebugSession, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Prompt调试文档\n\n")
	fmt.Fprintf(&b, "## 文物信息\n%s\n\n", s.ArtifactContext)
	b.WriteString("## Prompt调整历史\n\n")

	for i, adj := range s.Adjustments {
		fmt.Fprintf(&b, "\n### %d. %s - %s\n\n", i+1, adj.Persona.Label(), localTime(adj.CreatedAt))
		fmt.Fprintf(&b, "**用户要求：**\n%s\n\n", adj.Request)
		fmt.Fprintf(&b, "**调整前：**\n%s\n\n", adj.Before)
		fmt.Fprintf(&b, "**调整后：**\n%s\n\n", adj.After)
		b.WriteString("---\n")
	}

	b.WriteString("\n## 最终Prompts\n\n")
	fmt.Fprintf(&b, "### 文物 (Artifact)\n%s\n\n", s.FinalPrompts.Artifact)
	fmt.Fprintf(&b, "### 作者 (Author)\n%s\n\n", s.FinalPrompts.Author)
	fmt.Fprintf(&b, "### 导览员 (Guide)\n%s\n\n", s.FinalPrompts.Guide)
	fmt.Fprintf(&b, "---\n生成时间: %s\n", now.UTC().Format(time.RFC3339))
	return b.String()
}

func renderChatLog(s DebugSession, now time.Time) string {
	var b strings.Builder
	b.WriteString("# 调试模式聊天记录\n\n")
	fmt.Fprintf(&b, "## 文物信息\n%s\n\n", s.ArtifactContext)
	b.WriteString("## 对话记录\n\n")

	for _, persona := range models.Speakers {
		turns := visibleTurns(s.ChatHistories[persona])
		fmt.Fprintf(&b, "### %s\n\n", persona.Label())
		if len(turns) == 0 {
			b.WriteString("*暂无对话记录*\n\n---\n\n")
			continue
		}
		for _, t := range turns {
			switch t.Speaker {
			case models.PersonaSystem:
				fmt.Fprintf(&b, "**系统提示：** %s\n\n", t.Text)
			case models.PersonaUser:
				fmt.Fprintf(&b, "👤 用户 (%s)\n%s\n\n", localTime(t.CreatedAt), t.Text)
			default:
				fmt.Fprintf(&b, "🤖 %s (%s)\n%s\n\n", t.Speaker.Label(), localTime(t.CreatedAt), t.Text)
			}
		}
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "生成时间: %s\n", now.UTC().Format(time.RFC3339))
	return b.String()
}

// visibleTurns drops system turns other than session greetings and error notices
func visibleTurns(turns []models.Turn) []models.Turn {
	out := make([]models.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Speaker == models.PersonaSystem && !strings.Contains(t.Text, "开始与") && !strings.Contains(t.Text, "错误") {
			continue
		}
		out = append(out, t)
	}
	return out
}
