// ABOUTME: DirectiveSet holds the per-persona system instructions supplied with each request
// ABOUTME: DirectiveAdjustment records one debug-mode rewrite of a persona directive
package models

import "time"

// DirectiveSet maps each speaker persona, plus the turn manager, to its directive text
type DirectiveSet struct {
	Artifact string `json:"artifact" yaml:"artifact"`
	Author   string `json:"author" yaml:"author"`
	Guide    string `json:"guide" yaml:"guide"`
	Manager  string `json:"manager" yaml:"manager"`
}

// For returns the directive for a speaker persona, or "" for anything else
func (d DirectiveSet) For(p Persona) string {
	switch p {
	case PersonaArtifact:
		return d.Artifact
	case PersonaAuthor:
		return d.Author
	case PersonaGuide:
		return d.Guide
	}
	return ""
}

// With returns a copy of d with the directive for p replaced
func (d DirectiveSet) With(p Persona, directive string) DirectiveSet {
	switch p {
	case PersonaArtifact:
		d.Artifact = directive
	case PersonaAuthor:
		d.Author = directive
	case PersonaGuide:
		d.Guide = directive
	}
	return d
}

// Overlay returns d with every non-empty field of o applied on top
func (d DirectiveSet) Overlay(o DirectiveSet) DirectiveSet {
	if o.Artifact != "" {
		d.Artifact = o.Artifact
	}
	if o.Author != "" {
		d.Author = o.Author
	}
	if o.Guide != "" {
		d.Guide = o.Guide
	}
	if o.Manager != "" {
		d.Manager = o.Manager
	}
	return d
}

// DirectiveAdjustment is one natural-language tuning step applied to a persona directive
type DirectiveAdjustment struct {
	Persona   Persona   `json:"role" yaml:"role"`
	Request   string    `json:"userRequest" yaml:"user_request"`
	Before    string    `json:"oldPrompt" yaml:"old_prompt"`
	After     string    `json:"newPrompt" yaml:"new_prompt"`
	CreatedAt time.Time `json:"timestamp" yaml:"timestamp"`
}
