// ABOUTME: Chat command runs an interactive multi-persona conversation in the terminal
// ABOUTME: Empty line or /continue reveals the next persona; /quit ends the session
package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/museum-guide/internal/chat"
)

var (
	chatContext     string
	chatContextFile string
	chatModel       string
)

const chatHelp = `Commands:
  (empty line), /continue   hear from the next persona
  1-4                       ask a suggested question
  /suggest                  show suggested questions
  /history                  show the conversation so far
  /quit                     leave`

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the guide personas",
		Long: `Start an interactive conversation about one artifact.

After each message the first persona answers. If more personas were
selected, press enter (or type /continue) to hear the next one.

` + chatHelp + `

Examples:
  museum-guide chat --context "唐三彩马，1957年出土于西安"
  museum-guide chat --context-file artifact.txt --model gpt-4.1-mini`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	addConversationFlags(cmd, &chatContext, &chatContextFile, &chatModel)

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, true)
	if err != nil {
		return err
	}
	artifactContext, err := resolveContext(chatContext, chatContextFile)
	if err != nil {
		return err
	}
	session, err := newSession(a, artifactContext, chatModel)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), chatHelp)
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return chatLoop(ctx, session, cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads visitor input line by line until /quit or end of input
func chatLoop(ctx context.Context, session *chat.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit" || line == "/exit":
			return nil

		case line == "" || line == "/continue":
			if err := revealNext(ctx, session, out); err != nil {
				return err
			}

		case line == "/suggest":
			printSuggestions(out, session.Suggestions())

		case line == "/history":
			for _, turn := range session.History() {
				fmt.Fprintf(out, "%s  ", formatTime(turn.CreatedAt))
				printTurn(out, turn)
			}

		default:
			message := line
			if n, err := strconv.Atoi(line); err == nil {
				suggestions := session.Suggestions()
				if n >= 1 && n <= len(suggestions) {
					message = suggestions[n-1]
					fmt.Fprintf(out, "> %s\n", message)
				}
			}
			result, err := session.Send(ctx, message)
			if err != nil {
				return err
			}
			printTurn(out, result.Reply)
			if next, ok := session.NextRole(); ok {
				fmt.Fprintf(out, "  (%s还有话说，按回车继续)\n", next.Label())
			} else {
				printSuggestions(out, session.Suggestions())
			}
		}
	}
}

// revealNext prints the next pending persona, or a hint when nobody is waiting
func revealNext(ctx context.Context, session *chat.Session, out io.Writer) error {
	result, err := session.Continue(ctx)
	if errors.Is(err, chat.ErrNoContinuation) {
		fmt.Fprintln(out, "  (没有其他角色要发言，请输入问题)")
		return nil
	}
	if err != nil {
		return err
	}
	printTurn(out, result.Turn)
	if result.ShouldContinue {
		fmt.Fprintf(out, "  (%s还有话说，按回车继续)\n", result.NextRole.Label())
	} else {
		printSuggestions(out, result.Suggestions)
	}
	return nil
}
