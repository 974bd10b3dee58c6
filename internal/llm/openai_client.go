// ABOUTME: OpenAI-backed completion gateway for persona replies, selection and suggestions
// ABOUTME: One attempt per call; failures are classified into ProviderError for the caller to absorb
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harper/museum-guide/internal/metrics"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultMaxTokens keeps persona replies near the 50-100 character budget
	DefaultMaxTokens = 250
	// DefaultTemperature favours natural-sounding replies
	DefaultTemperature = 0.8
)

// ClientConfig holds configuration for the OpenAI gateway
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default gateway configuration for apiKey
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     60 * time.Second,
	}
}

// OpenAIClient implements Completer over the OpenAI chat completions API
type OpenAIClient struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	logger      zerolog.Logger
}

// NewOpenAIClient creates a gateway. A missing API key is not an error here:
// every Complete call then fails with ErrAuthentication without touching the network.
func NewOpenAIClient(config *ClientConfig, logger zerolog.Logger) *OpenAIClient {
	c := &OpenAIClient{
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		logger:      logger.With().Str("component", "gateway").Logger(),
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}

	if config.APIKey == "" {
		return c
	}

	oaiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaiConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	if config.Timeout > 0 {
		oaiConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	c.client = openai.NewClientWithConfig(oaiConfig)
	return c
}

// NewConnector returns a Connector that builds a gateway per credential from a template config
func NewConnector(template ClientConfig, logger zerolog.Logger) ConnectorFunc {
	return func(apiKey string) Completer {
		cfg := template
		cfg.APIKey = apiKey
		return NewOpenAIClient(&cfg, logger)
	}
}

// Complete sends one chat completion request and returns the first choice's text
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.client == nil {
		metrics.Completions.WithLabelValues("unauthenticated").Inc()
		return "", ErrAuthentication
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toOpenAIMessages(req),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	metrics.CompletionLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Completions.WithLabelValues("error").Inc()
		perr := classify(req.Model, err)
		c.logger.Warn().Err(err).Str("model", req.Model).Int("status", perr.StatusCode).Msg("completion failed")
		return "", perr
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.Completions.WithLabelValues("empty").Inc()
		return "", &ProviderError{Model: req.Model, Message: "no completion choices returned"}
	}

	metrics.Completions.WithLabelValues("ok").Inc()
	c.logger.Debug().
		Str("model", req.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("latency", time.Since(start)).
		Msg("completion ok")

	return resp.Choices[0].Message.Content, nil
}

// toOpenAIMessages prepends the optional system directive and maps roles
func toOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openAIRole(m.Role),
			Content: m.Text,
		})
	}
	return messages
}

func openAIRole(r Role) string {
	switch r {
	case RoleUser:
		return openai.ChatMessageRoleUser
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	}
	return openai.ChatMessageRoleAssistant
}

// classify converts go-openai errors into a ProviderError carrying the provider's message
func classify(model string, err error) *ProviderError {
	perr := &ProviderError{Model: model, Message: err.Error(), Err: err}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		perr.StatusCode = apiErr.HTTPStatusCode
		perr.Message = apiErr.Message
		return perr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		perr.StatusCode = reqErr.HTTPStatusCode
		if reqErr.Err != nil {
			perr.Message = reqErr.Err.Error()
		} else {
			perr.Message = fmt.Sprintf("request failed with status %s", reqErr.HTTPStatus)
		}
	}
	return perr
}
