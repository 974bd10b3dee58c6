// ABOUTME: Main entry point for the museum guide HTTP API server
// ABOUTME: Loads configuration from the environment and serves until SIGINT or SIGTERM
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harper/museum-guide/internal/app"
	"github.com/harper/museum-guide/internal/config"
	"github.com/harper/museum-guide/internal/server"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if cfg.OpenAIKey == "" {
		a.Logger.Warn().Msg("OPENAI_API_KEY not set; clients must send their own apiKey")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg.Addr(), a.Service, version, a.Logger).Run(ctx, 10*time.Second)
}
