// ABOUTME: Persona identifies who spoke a turn: the visitor, one of three AI personas, or the system
// ABOUTME: Only artifact, author and guide are speakers that the model can answer as
package models

import (
	"fmt"
	"strings"
)

// Persona is the closed set of turn speakers
type Persona string

const (
	PersonaUser     Persona = "user"
	PersonaArtifact Persona = "artifact"
	PersonaAuthor   Persona = "author"
	PersonaGuide    Persona = "guide"
	PersonaSystem   Persona = "system"
)

// DefaultPersona answers whenever persona selection yields nothing usable
const DefaultPersona = PersonaGuide

// Speakers lists the personas that can produce model-generated turns, in display order
var Speakers = []Persona{PersonaArtifact, PersonaAuthor, PersonaGuide}

// ParsePersona validates a raw persona name (case-insensitive, surrounding space ignored)
func ParsePersona(s string) (Persona, error) {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PersonaUser, PersonaArtifact, PersonaAuthor, PersonaGuide, PersonaSystem:
		return p, nil
	}
	return "", fmt.Errorf("unknown persona %q", s)
}

// ParseSpeaker is ParsePersona restricted to artifact, author and guide
func ParseSpeaker(s string) (Persona, error) {
	p, err := ParsePersona(s)
	if err != nil {
		return "", err
	}
	if !p.IsSpeaker() {
		return "", fmt.Errorf("persona %q cannot speak as a guide persona", s)
	}
	return p, nil
}

// IsSpeaker reports whether p is one of the model-driven personas
func (p Persona) IsSpeaker() bool {
	switch p {
	case PersonaArtifact, PersonaAuthor, PersonaGuide:
		return true
	}
	return false
}

// Label is the short name used when rendering transcripts
func (p Persona) Label() string {
	switch p {
	case PersonaUser:
		return "用户"
	case PersonaArtifact:
		return "文物"
	case PersonaAuthor:
		return "作者"
	case PersonaGuide:
		return "导览员"
	case PersonaSystem:
		return "系统"
	}
	return string(p)
}

// Identity is how a persona is named when the model is asked to speak as it
func (p Persona) Identity() string {
	switch p {
	case PersonaArtifact:
		return "文物本身"
	case PersonaAuthor:
		return "文物的作者"
	case PersonaGuide:
		return "导览员"
	case PersonaUser:
		return "用户"
	case PersonaSystem:
		return "系统"
	}
	return string(p)
}

func (p Persona) String() string {
	return string(p)
}
