// ABOUTME: Ask command sends one visitor message and prints every persona reply
// ABOUTME: Follow-up question suggestions are printed after the replies
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/app"
	"github.com/harper/museum-guide/internal/chat"
	"github.com/harper/museum-guide/internal/models"
)

var (
	askContext     string
	askContextFile string
	askModel       string
	askFirstOnly   bool
)

// askResult is the JSON shape of the ask command's output
type askResult struct {
	Turns              []models.Turn    `json:"turns"`
	SelectedRoles      []models.Persona `json:"selectedRoles"`
	SuggestedQuestions []string         `json:"suggestedQuestions"`
}

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the guide personas one question",
		Long: `Ask one question and print the replies.

The manager picks which personas answer; all of them are printed in
order unless --first-only is given.

Examples:
  museum-guide ask "这件青铜器是做什么用的？" --context "西周青铜鼎，高54厘米"
  museum-guide ask --context-file artifact.txt "谁制作了它？"
  museum-guide ask --format json "它有多少年历史？"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	addConversationFlags(cmd, &askContext, &askContextFile, &askModel)
	cmd.Flags().BoolVar(&askFirstOnly, "first-only", false, "Only print the first persona's reply")

	return cmd
}

// addConversationFlags registers the flags shared by ask and chat
func addConversationFlags(cmd *cobra.Command, artifactContext, contextFile, model *string) {
	cmd.Flags().StringVar(artifactContext, "context", "", "Background on the artifact being viewed")
	cmd.Flags().StringVar(contextFile, "context-file", "", "Read the artifact background from a file")
	cmd.Flags().StringVar(model, "model", "", "Model id (default: MUSEUM_MODEL)")
	cmd.MarkFlagsMutuallyExclusive("context", "context-file")
}

// resolveContext returns the artifact background from a flag or file
func resolveContext(text, file string) (string, error) {
	if file == "" {
		return text, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading context file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// newSession starts a terminal conversation bound to the configured credential
func newSession(a *app.App, artifactContext, model string) (*chat.Session, error) {
	if a.Config.OpenAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required (set it in the environment or .env)")
	}
	if model == "" {
		model = a.Config.ChatModel
	}
	return chat.NewSession(a.Orchestrator(), chat.SessionConfig{
		Context:    artifactContext,
		Model:      model,
		Directives: a.Directives,
	}), nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	artifactContext, err := resolveContext(askContext, askContextFile)
	if err != nil {
		return err
	}
	session, err := newSession(a, artifactContext, askModel)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	message := strings.Join(args, " ")
	first, err := session.Send(ctx, message)
	if err != nil {
		return err
	}

	result := askResult{
		Turns:         []models.Turn{first.Reply},
		SelectedRoles: first.Selection,
	}
	for !askFirstOnly && session.Pending() {
		next, err := session.Continue(ctx)
		if err != nil {
			return err
		}
		result.Turns = append(result.Turns, next.Turn)
	}
	result.SuggestedQuestions = session.Suggestions()

	out := cmd.OutOrStdout()
	if jsonOutput() {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", jsonData)
		return nil
	}

	for _, turn := range result.Turns {
		printTurn(out, turn)
	}
	if !quiet {
		printSuggestions(out, result.SuggestedQuestions)
	}
	return nil
}
