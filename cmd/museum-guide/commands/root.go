// ABOUTME: Root command and global flags for the museum guide CLI
// ABOUTME: Shared setup turns environment configuration into an app.App for subcommands
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/app"
	"github.com/harper/museum-guide/internal/config"
	"github.com/joho/godotenv"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███╗   ███╗██╗   ██╗███████╗███████╗██╗   ██╗███╗   ███╗
████╗ ████║██║   ██║██╔════╝██╔════╝██║   ██║████╗ ████║
██╔████╔██║██║   ██║███████╗█████╗  ██║   ██║██╔████╔██║
██║╚██╔╝██║██║   ██║╚════██║██╔══╝  ██║   ██║██║╚██╔╝██║
██║ ╚═╝ ██║╚██████╔╝███████║███████╗╚██████╔╝██║ ╚═╝ ██║
╚═╝     ╚═╝ ╚═════╝ ╚══════╝╚══════╝ ╚═════╝ ╚═╝     ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "museum-guide",
		Short: "Multi-persona museum guide chat",
		Long: banner + `
Museum Guide lets a visitor talk to an artifact, its author and a
museum guide at the same time. A manager decides who answers each
message; extra personas are revealed one at a time.

Run the HTTP API for the browser client with "serve", expose the
conversation tools to LLM agents with "mcp", or talk from the
terminal with "ask" and "chat".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "text":
			default:
				return fmt.Errorf("--format must be auto, json or text, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json or text")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewServeCmd(),
		NewMCPCmd(),
		NewAskCmd(),
		NewChatCmd(),
		NewPromptsCmd(),
		NewModelsCmd(),
		NewExportCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads .env and the environment, applying the verbosity flags to the log level
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	switch {
	case verbose:
		cfg.LogLevel = "debug"
	case quiet:
		cfg.LogLevel = "error"
	}
	return cfg, nil
}

// loadApp builds the application with logs on the command's stderr.
// Terminal conversations only log warnings unless --verbose is set.
func loadApp(cmd *cobra.Command, conversational bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if conversational && !verbose && !quiet {
		cfg.LogLevel = "warn"
	}
	return app.New(cfg, cmd.ErrOrStderr())
}

// jsonOutput reports whether results should be printed as JSON
func jsonOutput() bool {
	return outputFormat == "json"
}
