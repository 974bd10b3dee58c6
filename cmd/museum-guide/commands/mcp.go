// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents drive museum guide conversations over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the museum guide as an MCP (Model Context Protocol) server so
agents can hold multi-persona conversations via stdio. Tools:
process_message, continue_with_role, suggest_questions and
default_directives.

Tool calls use OPENAI_API_KEY unless they pass api_key.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent host)
  museum-guide mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "museum-guide": {
  #       "command": "museum-guide",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}

	if a.Config.OpenAIKey == "" {
		a.Logger.Warn().Msg("OPENAI_API_KEY not set; tool calls must pass api_key")
	}

	server := mcpserver.NewMCPServer("Museum Guide", versionInfo.Version)
	mcp.RegisterTools(server, a.Service, a.Config.OpenAIKey, a.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info().Msg("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
