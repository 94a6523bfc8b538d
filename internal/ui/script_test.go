package ui

import (
	"errors"
	"testing"
)

func TestScriptPrompterInput(t *testing.T) {
	t.Parallel()

	p := NewScriptPrompter("hello", "")
	v, err := p.Input("first", nil, nil)
	if err != nil || v != "hello" {
		t.Errorf("Input() = %q, %v; want %q, nil", v, err, "hello")
	}

	def := "fallback"
	v, err = p.Input("second", &def, nil)
	if err != nil || v != "fallback" {
		t.Errorf("Input() = %q, %v; want default", v, err)
	}
}

func TestScriptPrompterInputValidation(t *testing.T) {
	t.Parallel()

	nonEmpty := func(s string) error {
		if s == "" {
			return errors.New("cannot be empty")
		}
		return nil
	}

	// Invalid answers are consumed until a valid one appears, like an
	// interactive re-prompt loop.
	p := NewScriptPrompter("", "", "value")
	v, err := p.Input("prompt", nil, nonEmpty)
	if err != nil || v != "value" {
		t.Errorf("Input() = %q, %v; want %q, nil", v, err, "value")
	}
}

func TestScriptPrompterInputTrims(t *testing.T) {
	t.Parallel()

	p := NewScriptPrompter("  padded  ")
	v, err := p.Input("prompt", nil, nil)
	if err != nil || v != "padded" {
		t.Errorf("Input() = %q, %v; want trimmed value", v, err)
	}
}

func TestScriptPrompterConfirm(t *testing.T) {
	t.Parallel()

	p := NewScriptPrompter("y", "No", "", "")
	if v, err := p.Confirm("a", nil); err != nil || !v {
		t.Errorf("Confirm(%q) = %v, %v; want true", "y", v, err)
	}
	if v, err := p.Confirm("b", nil); err != nil || v {
		t.Errorf("Confirm(%q) = %v, %v; want false", "No", v, err)
	}

	yes, no := true, false
	if v, err := p.Confirm("c", &yes); err != nil || !v {
		t.Errorf("Confirm(default true) = %v, %v", v, err)
	}
	if v, err := p.Confirm("d", &no); err != nil || v {
		t.Errorf("Confirm(default false) = %v, %v", v, err)
	}
}

func TestScriptPrompterExhausted(t *testing.T) {
	t.Parallel()

	p := NewScriptPrompter()
	if _, err := p.Input("prompt", nil, nil); err == nil {
		t.Error("Input() expected error when answers are exhausted")
	}
	if _, err := p.Confirm("prompt", nil); err == nil {
		t.Error("Confirm() expected error when answers are exhausted")
	}
}

func TestScriptPrompterInputSecret(t *testing.T) {
	t.Parallel()

	p := NewScriptPrompter("  verbatim  ")
	v, err := p.InputSecret("token")
	if err != nil || v != "  verbatim  " {
		t.Errorf("InputSecret() = %q, %v; want verbatim answer", v, err)
	}
}
