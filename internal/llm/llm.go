// ABOUTME: Provider-neutral completion contract used by the conversation core
// ABOUTME: Roles at this boundary are user, assistant and system only; personas never cross it
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role is a chat role understood by the completion provider
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one role-tagged entry in a completion request
type Message struct {
	Role Role
	Text string
}

// Request is a single completion call
type Request struct {
	Model    string
	System   string // optional, sent ahead of Messages
	Messages []Message
}

// Completer turns a request into completion text
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Connector builds a Completer bound to one caller credential
type Connector interface {
	Connect(apiKey string) Completer
}

// ConnectorFunc adapts a function to Connector
type ConnectorFunc func(apiKey string) Completer

func (f ConnectorFunc) Connect(apiKey string) Completer {
	return f(apiKey)
}

// ErrAuthentication is returned when no credential is configured
var ErrAuthentication = errors.New("AI service not initialized: API key is required")

// ProviderError wraps any failure reported by, or on the way to, the provider
type ProviderError struct {
	Model      string
	StatusCode int // 0 when the request never got an HTTP response
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("AI请求失败 (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("AI请求失败: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
