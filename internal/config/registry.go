package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Key identifies one configurable aspect of the seeded project. The key
// set is closed; keys are resolved in declaration order because later
// keys' defaults may depend on earlier keys' resolved values.
type Key int

const (
	// KeyBarebones selects the reduced project shape. Resolved first
	// because it gates which other keys are required or ignored.
	KeyBarebones Key = iota
	// KeyProject is the project path; its final segment is the project name.
	KeyProject
	// KeyDescription is the project description.
	KeyDescription
	// KeyURL is the docs site URL.
	KeyURL
	// KeyMainPkg is the main package name; empty means "derive from the
	// project name".
	KeyMainPkg
	// KeyMITLicense toggles the MIT license body.
	KeyMITLicense
	// KeyAuthors is the comma separated "name <email>" author list.
	KeyAuthors
	// KeyMinPyVersion is the minimum supported python3 version.
	KeyMinPyVersion
	// KeyMaxPyVersion is the maximum python3 version for CI matrices.
	KeyMaxPyVersion
	// KeyPyTyped toggles the py.typed typing-support marker.
	KeyPyTyped
	// KeyHookCron toggles the monthly pre-commit hook update schedule.
	KeyHookCron
	// KeyAddDeps lists additional dependencies (semicolon separated).
	KeyAddDeps
	// KeyAddDevDeps lists additional dev dependencies (semicolon separated).
	KeyAddDevDeps
	// KeyNoGitHub disables all github related files and setup.
	KeyNoGitHub
	// KeyNoDoctests disables the doctest-loading test stub.
	KeyNoDoctests

	numKeys
)

var keyNames = map[Key]string{
	KeyBarebones:    "barebones",
	KeyProject:      "project",
	KeyDescription:  "description",
	KeyURL:          "url",
	KeyMainPkg:      "main_pkg",
	KeyMITLicense:   "add_mit_license",
	KeyAuthors:      "authors",
	KeyMinPyVersion: "min_py_version",
	KeyMaxPyVersion: "max_py_version",
	KeyPyTyped:      "add_py_typed",
	KeyHookCron:     "update_pc_hooks_on_schedule",
	KeyAddDeps:      "add_deps",
	KeyAddDevDeps:   "add_dev_deps",
	KeyNoGitHub:     "no_github",
	KeyNoDoctests:   "no_doctests",
}

// String returns the key's internal name, for diagnostics.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Registry is the closed, ordered set of recognized configuration keys.
// It is built once at startup and never mutated afterwards; derived
// defaults are applied as scoped spec copies, not registry mutations.
type Registry struct {
	order     []Key
	specs     map[Key]KeySpec
	barebones map[Key]bool
}

// NewRegistry builds the registry. authorsDefault, usually taken from
// the git identity, becomes the default of the authors key; nil makes
// the key required in non-interactive mode.
func NewRegistry(authorsDefault *string) *Registry {
	specs := map[Key]KeySpec{
		KeyBarebones:    NewBoolSpec("barebones", "create barebones project", BoolDefault(false)),
		KeyProject:      NewStringSpec("path", "project path", nil, ValidateNonEmpty),
		KeyDescription:  NewStringSpec("desc", "project description", StrDefault(""), nil),
		KeyURL:          NewStringSpec("url", "project docs site", StrDefault(""), nil),
		KeyMainPkg:      NewStringSpec("pkg", "main package name (same as project name if empty)", StrDefault(""), nil),
		KeyMITLicense:   NewBoolSpec("mit", "include mit license", BoolDefault(true)),
		KeyAuthors:      NewStringSpec("authors", "authors (comma separated 'name <email>')", authorsDefault, nil),
		KeyMinPyVersion: NewStringSpec("pym", "minimum python3 version", StrDefault(fmt.Sprintf("3.%d", MinPythonMinor)), ValidatePythonVersion),
		KeyMaxPyVersion: NewStringSpec("pyM", "maximum python3 version, for github actions", StrDefault("3.12"), ValidatePythonVersion),
		KeyPyTyped:      NewBoolSpec("py_typed", "add 'py.typed' file indicating typing support", BoolDefault(true)),
		KeyHookCron:     NewBoolSpec("pc_cron", "add support for updating pre-commit hooks monthly", BoolDefault(true)),
		KeyAddDeps:      NewStringSpec("add_deps", "additional python dependencies to install (semicolon separated)", StrDefault(""), nil),
		KeyAddDevDeps:   NewStringSpec("add_dev_deps", "additional python dev dependencies to install (semicolon separated)", StrDefault(""), nil),
		KeyNoGitHub:     NewBoolSpec("no_github", "disable github support by not including any github related files", BoolDefault(false)),
		KeyNoDoctests:   NewBoolSpec("no_doctests", "do not include boilerplate code to load doctests", BoolDefault(false)),
	}

	r := &Registry{
		order: []Key{
			KeyBarebones, KeyProject, KeyDescription, KeyURL, KeyMainPkg,
			KeyMITLicense, KeyAuthors, KeyMinPyVersion, KeyMaxPyVersion,
			KeyPyTyped, KeyHookCron, KeyAddDeps, KeyAddDevDeps,
			KeyNoGitHub, KeyNoDoctests,
		},
		specs: specs,
		barebones: map[Key]bool{
			KeyURL:          true,
			KeyMaxPyVersion: true,
			KeyHookCron:     true,
			KeyNoGitHub:     true,
			KeyNoDoctests:   true,
		},
	}

	for k := range r.barebones {
		switch s := specs[k].(type) {
		case *StringSpec:
			s.barebones = true
		case *BoolSpec:
			s.barebones = true
		}
	}

	return r
}

// Keys returns the keys in declaration (resolution) order.
func (r *Registry) Keys() []Key {
	return r.order
}

// Spec returns the spec for a key. Requesting an unknown key is an
// authoring defect.
func (r *Registry) Spec(k Key) KeySpec {
	spec, ok := r.specs[k]
	if !ok {
		panic(fmt.Sprintf("config: no spec for key %s", k))
	}
	return spec
}

// IgnoredInBarebones reports whether the key is skipped entirely when
// the project mode is barebones.
func (r *Registry) IgnoredInBarebones(k Key) bool {
	return r.barebones[k]
}

// RegisterAll adds every key's flag(s) to cmd, in declaration order.
func (r *Registry) RegisterAll(cmd *cobra.Command, noDefaultRequired bool) {
	for _, k := range r.order {
		r.Spec(k).Register(cmd, noDefaultRequired)
	}
}
