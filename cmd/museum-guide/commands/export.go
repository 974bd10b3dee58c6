// ABOUTME: Export command renders a saved debug session into shareable documents
// ABOUTME: Markdown produces the prompt-tuning log and chat log; YAML produces one document
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/export"
)

var (
	exportAs  string
	exportOut string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [session.json]",
		Short: "Render a debug session to Markdown or YAML",
		Long: `Render a debug session saved by the browser client.

The session file holds the artifact context, the directive
adjustments, the final directives and each persona's test chat.
Markdown output is two files (prompt-debug and chat-history);
YAML output is a single file.

Examples:
  museum-guide export session.json
  museum-guide export session.json --as yaml --out ./exports
  museum-guide export session.json --out -`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportAs, "as", "markdown", "Document format: markdown or yaml")
	cmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Output directory, or - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportAs)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	var session export.DebugSession
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("parsing session %s: %w", args[0], err)
	}

	docs, err := export.Render(session, format, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOut == "-" {
		for _, doc := range docs {
			fmt.Fprintln(out, doc.Content)
		}
		return nil
	}

	paths, err := export.WriteFiles(exportOut, docs)
	if err != nil {
		return err
	}

	if jsonOutput() {
		jsonData, err := json.MarshalIndent(map[string][]string{"files": paths}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", jsonData)
		return nil
	}
	if !quiet {
		for _, p := range paths {
			fmt.Fprintf(out, "Wrote %s\n", p)
		}
	}
	return nil
}
