// ABOUTME: Prompts command shows the persona directives in effect
// ABOUTME: --init writes the built-in directives to the YAML overlay file for editing
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/museum-guide/internal/config"
	"github.com/harper/museum-guide/internal/models"
)

var (
	promptsInit     bool
	promptsForce    bool
	promptsDefaults bool
)

// NewPromptsCmd creates the prompts command
func NewPromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Show or initialise persona directives",
		Long: `Show the directives used for the artifact, author and guide personas
and for the manager that picks who answers.

Directives come from the built-in defaults with the YAML file at
MUSEUM_DIRECTIVES_FILE (default: $XDG_CONFIG_HOME/museum-guide/directives.yaml)
applied on top. Use --init to write that file and edit it.

Examples:
  museum-guide prompts
  museum-guide prompts --defaults --format json
  museum-guide prompts --init
  museum-guide prompts --init --force`,
		Args: cobra.NoArgs,
		RunE: runPrompts,
	}

	cmd.Flags().BoolVar(&promptsInit, "init", false, "Write the built-in directives to the overlay file")
	cmd.Flags().BoolVar(&promptsForce, "force", false, "With --init, overwrite an existing file")
	cmd.Flags().BoolVar(&promptsDefaults, "defaults", false, "Show the built-in directives, ignoring the overlay file")

	return cmd
}

func runPrompts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if promptsInit {
		return initDirectives(cmd, cfg.DirectivesFile)
	}

	directives := config.DefaultDirectives()
	if !promptsDefaults {
		directives, err = config.LoadDirectives(cfg.DirectivesFile)
		if err != nil {
			return err
		}
	}
	return printDirectives(cmd, directives)
}

func initDirectives(cmd *cobra.Command, path string) error {
	if path == "" {
		return errors.New("no directives file configured (set MUSEUM_DIRECTIVES_FILE)")
	}
	if _, err := os.Stat(path); err == nil && !promptsForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.SaveDirectives(path, config.DefaultDirectives()); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote directives to %s\n", path)
	}
	return nil
}

func printDirectives(cmd *cobra.Command, directives models.DirectiveSet) error {
	out := cmd.OutOrStdout()
	if jsonOutput() {
		jsonData, err := json.MarshalIndent(directives, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", jsonData)
		return nil
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(directives); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
