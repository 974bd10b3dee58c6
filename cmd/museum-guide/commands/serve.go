// ABOUTME: Serve command starts the HTTP API used by the browser client
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/server"
)

var (
	serveAddr  string
	serveGrace time.Duration
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API for the browser client.

Serves the chat, continuation, suggestion and debug endpoints under
/api, plus Prometheus metrics on /metrics. The listen address comes
from MUSEUM_HOST and PORT unless --addr is given.

Examples:
  museum-guide serve
  museum-guide serve --addr :8080
  LOG_FORMAT=json museum-guide serve`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from MUSEUM_HOST and PORT)")
	cmd.Flags().DurationVar(&serveGrace, "grace", 10*time.Second, "Time allowed for in-flight requests on shutdown")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, false)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = a.Config.Addr()
	}
	if a.Config.OpenAIKey == "" {
		a.Logger.Warn().Msg("OPENAI_API_KEY not set; clients must send their own apiKey")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(addr, a.Service, versionInfo.Version, a.Logger)
	if err := srv.Run(ctx, serveGrace); err != nil {
		return err
	}
	a.Logger.Info().Msg("Shutdown complete")
	return nil
}
