// Package config implements the configuration acquisition and resolution
// engine: pure validators, polymorphic key specs, the closed key
// registry, and the resolver that turns command-line flags and
// interactive prompts into one fully resolved configuration.
package config

import (
	"fmt"
	"maps"
)

// Config is the mapping from Key to resolved value, built incrementally
// during resolution and read-only afterwards. Every key not ignored for
// the active project mode must have an entry; ignored keys are absent.
// Reading an absent key is a programming error and panics.
type Config struct {
	values map[Key]any
}

// NewConfig creates an empty configuration.
func NewConfig() *Config {
	return &Config{values: make(map[Key]any, int(numKeys))}
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	clone := NewConfig()
	maps.Copy(clone.values, c.values)
	return clone
}

// Has reports whether the key has been resolved.
func (c *Config) Has(k Key) bool {
	_, ok := c.values[k]
	return ok
}

// Set stores a resolved value.
func (c *Config) Set(k Key, v any) {
	c.values[k] = v
}

// Str returns a resolved string value. It panics on absent keys or type
// mismatches: both indicate a resolver bug, not a runtime condition.
func (c *Config) Str(k Key) string {
	v, ok := c.values[k]
	if !ok {
		panic(fmt.Sprintf("config: key %s not resolved", k))
	}
	s, ok := v.(string)
	if !ok {
		panic(fmt.Sprintf("config: key %s is not a string", k))
	}
	return s
}

// Bool returns a resolved boolean value, with the same panic semantics
// as Str.
func (c *Config) Bool(k Key) bool {
	v, ok := c.values[k]
	if !ok {
		panic(fmt.Sprintf("config: key %s not resolved", k))
	}
	b, ok := v.(bool)
	if !ok {
		panic(fmt.Sprintf("config: key %s is not a bool", k))
	}
	return b
}

// Barebones reports the resolved project mode.
func (c *Config) Barebones() bool {
	return c.Bool(KeyBarebones)
}
