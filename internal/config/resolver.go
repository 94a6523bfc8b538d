package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

// Mode is the configuration acquisition mode, decided once per run from
// the raw invocation arguments and immutable afterwards.
type Mode int

const (
	// ModeInteractive acquires values from prompts, seeded by any flags
	// that were supplied.
	ModeInteractive Mode = iota
	// ModeNonInteractive acquires every value from command-line flags.
	ModeNonInteractive
)

// shortClusterPattern matches bundled single-letter flags containing the
// interactive letter, e.g. "-i", "-si", "-his". Matching any cluster
// containing "i" is a known ambiguity kept for compatibility: a cluster
// of unrelated single-letter flags that happens to contain "i" would
// also trigger interactive mode.
var shortClusterPattern = regexp.MustCompile(`^-[a-z]*i[a-z]*$`)

// DetectMode determines the acquisition mode from raw arguments:
// interactive when no arguments were given or an explicit interactive
// flag is present, non-interactive otherwise.
func DetectMode(args []string) Mode {
	if len(args) == 0 {
		return ModeInteractive
	}
	for _, arg := range args {
		if arg == "--interactive" || shortClusterPattern.MatchString(arg) {
			return ModeInteractive
		}
	}
	return ModeNonInteractive
}

// DerivePackageName derives the main package name from a project path:
// the final path segment without extension, lower-cased, with hyphens
// replaced by underscores. A dot-leading segment with no other dot
// (".myproj") has no extension and is kept whole.
func DerivePackageName(projectPath string) string {
	base := filepath.Base(projectPath)
	stem := base
	if ext := filepath.Ext(base); ext != base {
		stem = strings.TrimSuffix(base, ext)
	}
	return strings.ReplaceAll(strings.ToLower(stem), "-", "_")
}

// Resolver drives key resolution against a registry.
type Resolver struct {
	reg      *Registry
	prompter ui.Prompter
}

// NewResolver creates a Resolver prompting through p.
func NewResolver(reg *Registry, p ui.Prompter) *Resolver {
	return &Resolver{reg: reg, prompter: p}
}

// Seed collects the keys explicitly supplied on the command line from a
// flag set parsed with noDefaultRequired. Unsupplied keys stay absent so
// the interactive pass prompts for them.
func (r *Resolver) Seed(fs *pflag.FlagSet) *Config {
	cfg := NewConfig()
	for _, k := range r.reg.Keys() {
		if v, ok := r.reg.Spec(k).Value(fs, true); ok {
			cfg.Set(k, v)
		}
	}
	return cfg
}

// ResolveFlags builds the full configuration from a flag set parsed with
// defaults and requiredness in force. No prompting occurs. When the
// resolved mode is barebones, mode-ignored keys are dropped so they can
// never be referenced downstream.
func (r *Resolver) ResolveFlags(fs *pflag.FlagSet) *Config {
	cfg := NewConfig()
	for _, k := range r.reg.Keys() {
		if v, ok := r.reg.Spec(k).Value(fs, false); ok {
			cfg.Set(k, v)
		}
	}
	if cfg.Has(KeyBarebones) && cfg.Barebones() {
		for _, k := range r.reg.Keys() {
			if r.reg.IgnoredInBarebones(k) {
				delete(cfg.values, k)
			}
		}
	}
	r.finalize(cfg)
	return cfg
}

// ResolveInteractive resolves every registry key in declaration order,
// keeping seeded values, skipping barebones-ignored keys in barebones
// mode, and prompting for the rest. Immediately after the project path
// resolves, the main package key's default is derived from it as a
// one-shot scoped override, visible to the pkg prompt if that key has
// not been resolved yet.
func (r *Resolver) ResolveInteractive(seed *Config) (*Config, error) {
	cfg := NewConfig()
	if seed != nil {
		cfg = seed.Clone()
	}

	overrides := make(map[Key]any)
	for _, k := range r.reg.Keys() {
		if !cfg.Has(k) {
			if r.reg.IgnoredInBarebones(k) && cfg.Has(KeyBarebones) && cfg.Barebones() {
				continue
			}
			spec := r.reg.Spec(k)
			if ov, ok := overrides[k]; ok {
				spec = spec.WithDefault(ov)
			}
			v, err := spec.Prompt(r.prompter)
			if err != nil {
				return nil, err
			}
			cfg.Set(k, v)
		}
		if k == KeyProject {
			overrides[KeyMainPkg] = DerivePackageName(cfg.Str(KeyProject))
		}
	}

	r.finalize(cfg)
	return cfg, nil
}

// finalize applies the post-resolution derivation: an empty main package
// name is replaced by the derivation from the project path. This second
// application point also covers the non-interactive path, where the
// per-key default override never runs.
func (r *Resolver) finalize(cfg *Config) {
	if cfg.Has(KeyMainPkg) && cfg.Has(KeyProject) && cfg.Str(KeyMainPkg) == "" {
		cfg.Set(KeyMainPkg, DerivePackageName(cfg.Str(KeyProject)))
	}
}
