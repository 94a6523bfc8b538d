package ui

import (
	"fmt"
	"strings"
)

// ScriptPrompter is a Prompter that replays queued answers. It backs
// headless runs and resolver tests, mirroring how stored defaults drive
// the interactive flow when no terminal is attached.
type ScriptPrompter struct {
	answers []string
	pos     int
}

// NewScriptPrompter creates a ScriptPrompter with the given answers,
// consumed in order. An empty answer selects the prompt default.
func NewScriptPrompter(answers ...string) *ScriptPrompter {
	return &ScriptPrompter{answers: answers}
}

func (p *ScriptPrompter) next(title string) (string, error) {
	if p.pos >= len(p.answers) {
		return "", fmt.Errorf("ui: no scripted answer for prompt %q", title)
	}
	a := p.answers[p.pos]
	p.pos++
	return a, nil
}

// Input returns the next scripted answer, falling back to the default on
// an empty answer, and applying the validator exactly like an
// interactive prompt would.
func (p *ScriptPrompter) Input(title string, def *string, validate func(string) error) (string, error) {
	for {
		raw, err := p.next(title)
		if err != nil {
			return "", err
		}
		if raw == "" && def != nil {
			raw = *def
		}
		raw = strings.TrimSpace(raw)
		if validate == nil {
			return raw, nil
		}
		if verr := validate(raw); verr == nil {
			return raw, nil
		}
		// Invalid scripted answer: consume the next one, like a re-prompt.
	}
}

// InputSecret returns the next scripted answer verbatim.
func (p *ScriptPrompter) InputSecret(title string) (string, error) {
	return p.next(title)
}

// Confirm interprets the next scripted answer as yes/no, falling back to
// the default on an empty answer.
func (p *ScriptPrompter) Confirm(title string, def *bool) (bool, error) {
	for {
		raw, err := p.next(title)
		if err != nil {
			return false, err
		}
		if raw == "" && def != nil {
			return *def, nil
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
	}
}

var _ Prompter = (*ScriptPrompter)(nil)
var _ Prompter = (*FormPrompter)(nil)
