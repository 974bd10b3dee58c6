// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Text helpers and turn rendering used by ask, chat and models
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/harper/museum-guide/internal/models"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Local().Format("2006-01-02")
}

// printTurn writes one turn as "[label] text"
func printTurn(w io.Writer, turn models.Turn) {
	fmt.Fprintf(w, "[%s] %s\n", turn.Speaker.Label(), turn.Text)
}

// printSuggestions writes numbered follow-up questions, or nothing when there are none
func printSuggestions(w io.Writer, questions []string) {
	if len(questions) == 0 {
		return
	}
	fmt.Fprintln(w, "推荐问题:")
	for i, q := range questions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, q)
	}
}
