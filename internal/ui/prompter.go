// Package ui provides the interactive prompting layer and the diagnostic
// action log. Prompting is wrapped behind the Prompter interface so the
// configuration resolver can be driven by a scripted implementation in
// tests and by huh forms in production.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the user aborts a prompt (ctrl-c).
// The caller terminates the whole run immediately with exit code 1.
var ErrInterrupted = errors.New("ui: interrupted")

// Prompter collects values from the user.
type Prompter interface {
	// Input prompts for a string value. A non-nil def is offered as the
	// initial value and shown as an inline hint. If validate is non-nil
	// the prompt loops until it returns nil. The result is trimmed.
	Input(title string, def *string, validate func(string) error) (string, error)

	// InputSecret prompts for a string without echoing it.
	InputSecret(title string) (string, error)

	// Confirm prompts for a yes/no decision. A nil def forces an
	// explicit choice; otherwise def is preselected.
	Confirm(title string, def *bool) (bool, error)
}

// FormPrompter implements Prompter with huh forms.
type FormPrompter struct {
	theme      *huh.Theme
	accessible bool
}

// NewFormPrompter creates a FormPrompter. When stdin is not a terminal
// the forms run in accessible (line-oriented) mode.
func NewFormPrompter() *FormPrompter {
	tty := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	theme := huh.ThemeBase()
	theme.Focused.Title = theme.Focused.Title.Foreground(lipgloss.Color("6"))
	theme.Focused.ErrorMessage = theme.Focused.ErrorMessage.Foreground(lipgloss.Color("1"))
	return &FormPrompter{theme: theme, accessible: !tty}
}

func (p *FormPrompter) run(form *huh.Form) error {
	err := form.WithTheme(p.theme).WithAccessible(p.accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrInterrupted
		}
		return err
	}
	return nil
}

// Input prompts for a string value with an optional default and validator.
func (p *FormPrompter) Input(title string, def *string, validate func(string) error) (string, error) {
	var value string
	input := huh.NewInput().Title(title).Value(&value)
	if def != nil {
		value = *def
		input = input.Description(fmt.Sprintf("default: %q", *def))
	}
	if validate != nil {
		input = input.Validate(func(s string) error {
			if err := validate(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("error: %s", err)
			}
			return nil
		})
	}
	if err := p.run(huh.NewForm(huh.NewGroup(input))); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// InputSecret prompts for a string without echoing the input.
func (p *FormPrompter) InputSecret(title string) (string, error) {
	var value string
	input := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&value)
	if err := p.run(huh.NewForm(huh.NewGroup(input))); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Confirm prompts for a yes/no decision.
func (p *FormPrompter) Confirm(title string, def *bool) (bool, error) {
	var value bool
	if def == nil {
		// No default: force an explicit choice instead of preselecting.
		sel := huh.NewSelect[bool]().Title(title + " ([y]es/[n]o)").Options(
			huh.NewOption("yes", true),
			huh.NewOption("no", false),
		).Value(&value)
		if err := p.run(huh.NewForm(huh.NewGroup(sel))); err != nil {
			return false, err
		}
		return value, nil
	}
	value = *def
	confirm := huh.NewConfirm().Title(title).Affirmative("yes").Negative("no").Value(&value)
	if err := p.run(huh.NewForm(huh.NewGroup(confirm))); err != nil {
		return false, err
	}
	return value, nil
}
