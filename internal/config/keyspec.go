package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

// KeySpec describes one configuration key. It knows how to prompt for
// its value interactively and how to register itself on a command's flag
// set. The two implementations, StringSpec and BoolSpec, form a closed
// sum dispatched by the registry's static declaration.
type KeySpec interface {
	// FlagName returns the command-line flag name (underscores rendered
	// as hyphens; single-character names also get a short form).
	FlagName() string

	// Help returns the flag help text, including the barebones-ignored
	// marker and the default hint where applicable.
	Help() string

	// Register adds the key's flag(s) to cmd. With noDefaultRequired the
	// flag default becomes "absent" and the flag is never required; this
	// supports pre-seeding defaults for a later interactive pass.
	Register(cmd *cobra.Command, noDefaultRequired bool)

	// Value reads the key's value back from a parsed flag set. With
	// explicitOnly, only flags actually supplied on the command line
	// count; otherwise the configured default fills in.
	Value(fs *pflag.FlagSet, explicitOnly bool) (any, bool)

	// Prompt interactively acquires a value, re-prompting on validation
	// failure until a valid value or an interrupt.
	Prompt(p ui.Prompter) (any, error)

	// WithDefault returns a copy of the spec with its default replaced.
	// This is the one-shot scoped override used for cross-field derived
	// defaults; the registry's own spec is never mutated.
	WithDefault(def any) KeySpec
}

// flagName renders a key name as its long flag name.
func flagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// StringSpec is a string-valued configuration key.
type StringSpec struct {
	name      string
	desc      string
	def       *string
	validator Validator
	barebones bool // ignored in barebones mode
}

// NewStringSpec creates a string key spec. A nil default makes the flag
// required in non-interactive mode.
func NewStringSpec(name, desc string, def *string, validator Validator) *StringSpec {
	return &StringSpec{name: name, desc: desc, def: def, validator: validator}
}

// StrDefault is a convenience for building *string defaults.
func StrDefault(s string) *string { return &s }

func (s *StringSpec) FlagName() string { return flagName(s.name) }

func (s *StringSpec) Help() string {
	help := s.desc
	if s.barebones {
		help += " (ignored in barebones mode)"
	}
	if s.def != nil {
		help += " [default: '" + *s.def + "']"
	}
	return help
}

// Register adds one flag for the key. A custom pflag.Value re-runs the
// validator at parse time so parse errors carry the validator's message.
func (s *StringSpec) Register(cmd *cobra.Command, noDefaultRequired bool) {
	fv := &validatedValue{validate: s.validator}
	if !noDefaultRequired && s.def != nil {
		fv.value = *s.def
	}
	fs := cmd.Flags()
	if len(s.name) == 1 {
		fs.VarP(fv, s.name, s.name, s.Help())
	} else {
		fs.Var(fv, s.FlagName(), s.Help())
	}
	if !noDefaultRequired && s.def == nil {
		_ = cmd.MarkFlagRequired(s.FlagName())
	}
}

func (s *StringSpec) Value(fs *pflag.FlagSet, explicitOnly bool) (any, bool) {
	f := fs.Lookup(s.FlagName())
	if f == nil {
		return nil, false
	}
	if f.Changed {
		return f.Value.String(), true
	}
	if explicitOnly {
		return nil, false
	}
	if s.def != nil {
		return *s.def, true
	}
	return nil, false
}

func (s *StringSpec) Prompt(p ui.Prompter) (any, error) {
	var validate func(string) error
	if s.validator != nil {
		validate = func(v string) error { return s.validator(v) }
	}
	return p.Input(s.desc, s.def, validate)
}

func (s *StringSpec) WithDefault(def any) KeySpec {
	clone := *s
	switch d := def.(type) {
	case string:
		clone.def = &d
	case *string:
		clone.def = d
	default:
		panic("config: string key default must be a string")
	}
	return &clone
}

// BoolSpec is a boolean-valued configuration key. Its command-line shape
// depends on the default:
//   - default false: one enable flag
//   - default true: one "--no-<key>" disable flag
//   - no default: a mutually exclusive enable/disable pair, one of which
//     is required unless noDefaultRequired
type BoolSpec struct {
	name      string
	desc      string
	def       *bool
	barebones bool
}

// NewBoolSpec creates a boolean key spec. A nil default forces an
// explicit choice.
func NewBoolSpec(name, desc string, def *bool) *BoolSpec {
	return &BoolSpec{name: name, desc: desc, def: def}
}

// BoolDefault is a convenience for building *bool defaults.
func BoolDefault(b bool) *bool { return &b }

func (b *BoolSpec) FlagName() string { return flagName(b.name) }

// disableFlagName returns the negated flag name.
func (b *BoolSpec) disableFlagName() string { return "no-" + b.FlagName() }

func (b *BoolSpec) Help() string {
	help := b.desc
	if b.barebones {
		help += " (ignored in barebones mode)"
	}
	return help
}

func (b *BoolSpec) Register(cmd *cobra.Command, noDefaultRequired bool) {
	fs := cmd.Flags()
	switch {
	case b.def != nil && !*b.def:
		fs.Bool(b.FlagName(), false, b.Help())
	case b.def != nil && *b.def:
		fs.Bool(b.disableFlagName(), false, "do not "+b.Help())
	default:
		fs.Bool(b.FlagName(), false, b.Help())
		fs.Bool(b.disableFlagName(), false, "do not "+b.Help())
		cmd.MarkFlagsMutuallyExclusive(b.FlagName(), b.disableFlagName())
		if !noDefaultRequired {
			cmd.MarkFlagsOneRequired(b.FlagName(), b.disableFlagName())
		}
	}
}

func (b *BoolSpec) Value(fs *pflag.FlagSet, explicitOnly bool) (any, bool) {
	switch {
	case b.def != nil && !*b.def:
		if fs.Changed(b.FlagName()) {
			return true, true
		}
		if explicitOnly {
			return nil, false
		}
		return false, true
	case b.def != nil && *b.def:
		if fs.Changed(b.disableFlagName()) {
			return false, true
		}
		if explicitOnly {
			return nil, false
		}
		return true, true
	default:
		if fs.Changed(b.FlagName()) {
			return true, true
		}
		if fs.Changed(b.disableFlagName()) {
			return false, true
		}
		return nil, false
	}
}

func (b *BoolSpec) Prompt(p ui.Prompter) (any, error) {
	return p.Confirm(b.desc, b.def)
}

func (b *BoolSpec) WithDefault(def any) KeySpec {
	clone := *b
	switch d := def.(type) {
	case bool:
		clone.def = &d
	case *bool:
		clone.def = d
	default:
		panic("config: bool key default must be a bool")
	}
	return &clone
}

// validatedValue is a pflag.Value that runs a Validator on Set, making
// flag parse errors carry the validator's message.
type validatedValue struct {
	value    string
	validate Validator
}

func (v *validatedValue) String() string { return v.value }

func (v *validatedValue) Type() string { return "string" }

func (v *validatedValue) Set(s string) error {
	if v.validate != nil {
		if err := v.validate(s); err != nil {
			return err
		}
	}
	v.value = s
	return nil
}

var (
	_ KeySpec     = (*StringSpec)(nil)
	_ KeySpec     = (*BoolSpec)(nil)
	_ pflag.Value = (*validatedValue)(nil)
)
