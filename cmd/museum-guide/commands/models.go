// ABOUTME: Models command lists the chat models the guide can use
// ABOUTME: Marks the configured default model
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/config"
)

// NewModelsCmd creates the models command
func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List supported chat models",
		Long: `List the chat models offered to the browser client.

The model marked with * is the configured default (MUSEUM_MODEL).

Examples:
  museum-guide models
  museum-guide models --format json`,
		Args: cobra.NoArgs,
		RunE: runModels,
	}

	return cmd
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog := config.Models()

	if jsonOutput() {
		jsonData, err := json.MarshalIndent(map[string][]config.ModelInfo{"models": catalog}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, " \tID\tNAME\tDESCRIPTION\n")
	for _, m := range catalog {
		marker := " "
		if m.ID == cfg.ChatModel {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, m.ID, m.Name, truncate(m.Description, 24))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !config.KnownModel(cfg.ChatModel) && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nConfigured model %q is not in the catalog\n", cfg.ChatModel)
	}
	return nil
}
