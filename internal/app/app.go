// ABOUTME: Process wiring shared by the CLI commands, the HTTP server and the MCP server
// ABOUTME: Turns a validated Config into a logger, directive set and chat Service
package app

import (
	"fmt"
	"io"

	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/config"
	"github.com/harper/museum-guide/internal/llm"
	"github.com/harper/museum-guide/internal/logging"
	"github.com/harper/museum-guide/internal/models"
	"github.com/rs/zerolog"
)

// App bundles the long-lived pieces of one process
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Directives models.DirectiveSet
	Connector  llm.Connector
	Service    *chat.Service
}

// New builds an App. logOutput nil means stderr.
func New(cfg *config.Config, logOutput io.Writer) (*App, error) {
	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: logOutput,
	})

	directives, err := config.LoadDirectives(cfg.DirectivesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load directives: %w", err)
	}

	connector := llm.NewConnector(GatewayConfig(cfg), logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Directives: directives,
		Connector:  connector,
		Service:    chat.NewService(connector, directives, cfg.ChatModel, ChatOptions(cfg), logger),
	}, nil
}

// GatewayConfig maps Config onto the completion gateway settings, without a credential
func GatewayConfig(cfg *config.Config) llm.ClientConfig {
	return llm.ClientConfig{
		BaseURL:     cfg.BaseURL,
		MaxTokens:   cfg.MaxTokens,
		Temperature: float32(cfg.Temperature),
		Timeout:     cfg.Timeout,
	}
}

// ChatOptions maps Config onto the orchestrator options
func ChatOptions(cfg *config.Config) chat.Options {
	return chat.Options{
		HistoryWindow:  cfg.HistoryWindow,
		SuggestWindow:  cfg.SuggestWindow,
		MaxSuggestions: cfg.MaxSuggestions,
		SuggestWait:    cfg.SuggestWait,
	}
}

// Orchestrator returns an orchestrator bound to the configured credential
func (a *App) Orchestrator() *chat.Orchestrator {
	return chat.NewOrchestrator(a.Connector.Connect(a.Config.OpenAIKey), ChatOptions(a.Config), a.Logger)
}
