// ABOUTME: Continuation tracks the personas still to be revealed after a multi-persona selection
// ABOUTME: Ordered role sequence, a cursor to the next role, and replies generated ahead of time
package chat

import "github.com/harper/museum-guide/internal/models"

// Continuation is owned by the caller and passed back on every continue call
type Continuation struct {
	Roles  []models.Persona               `json:"allSelectedRoles"`
	Cursor int                            `json:"currentRoleIndex"`
	Cache  map[models.Persona]models.Turn `json:"preGeneratedResponses"`
}

// NewContinuation stages replies[1:] for later reveal. replies is index-aligned
// with selection. A persona selected twice keeps its later reply.
func NewContinuation(selection []models.Persona, replies []models.Turn) *Continuation {
	c := &Continuation{
		Roles:  append([]models.Persona(nil), selection...),
		Cursor: 1,
		Cache:  make(map[models.Persona]models.Turn, len(selection)),
	}
	for i := 1; i < len(selection) && i < len(replies); i++ {
		c.Cache[selection[i]] = replies[i]
	}
	return c
}

// Pending reports whether a role remains to be revealed
func (c *Continuation) Pending() bool {
	return c != nil && c.Cursor >= 0 && c.Cursor < len(c.Roles)
}

// NextRole returns the role at the cursor
func (c *Continuation) NextRole() (models.Persona, bool) {
	if !c.Pending() {
		return "", false
	}
	return c.Roles[c.Cursor], true
}

// take removes and returns the cached reply for p
func (c *Continuation) take(p models.Persona) (models.Turn, bool) {
	turn, ok := c.Cache[p]
	if ok {
		delete(c.Cache, p)
	}
	return turn, ok
}

func (c *Continuation) advance() {
	c.Cursor++
}
