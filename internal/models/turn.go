// ABOUTME: Turn is one attributed, timestamped message in a museum guide conversation
// ABOUTME: Turns are immutable once created; an ordered slice of them is the history
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Turn represents a single conversation turn
type Turn struct {
	ID        string    `json:"id" yaml:"id"`
	Speaker   Persona   `json:"role" yaml:"role"`
	Text      string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewTurn creates a new Turn with validation
func NewTurn(speaker Persona, text string) (Turn, error) {
	if _, err := ParsePersona(string(speaker)); err != nil {
		return Turn{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Turn{}, errors.New("turn text cannot be empty")
	}
	return newTurn(speaker, text), nil
}

// NewPersonaTurn creates a turn for a model reply. Empty text is allowed here:
// a persona may legitimately answer with nothing and the caller still needs a turn.
func NewPersonaTurn(speaker Persona, text string) Turn {
	return newTurn(speaker, text)
}

func newTurn(speaker Persona, text string) Turn {
	return Turn{
		ID:        generateTurnID(),
		Speaker:   speaker,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

// Recent returns the last n turns of history without copying
func Recent(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
