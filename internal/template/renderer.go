// Package template holds the embedded project file bodies, the strict
// renderer, and the materializer that writes a resolved configuration
// out as a project tree.
package template

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"text/template"
)

//go:embed all:templates
var embeddedFS embed.FS

// Templates returns the embedded template filesystem rooted at the
// template bodies.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("template: embedded fs: %v", err))
	}
	return sub
}

// Template actions use [[ ]] delimiters so bodies can contain literal
// {{ }} text (GitHub Actions expressions, Jinja blocks).
const (
	delimLeft  = "[["
	delimRight = "]]"
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	// jsonEscape escapes a string for safe embedding in JSON/TOML/YAML
	// string values by leveraging encoding/json.Marshal, then stripping
	// the surrounding quotes.
	"jsonEscape": func(s string) string {
		b, err := json.Marshal(s)
		if err != nil {
			return s
		}
		return string(b[1 : len(b)-1])
	},
}

// unexpandedTokenPattern detects leftover template actions in rendered
// output.
var unexpandedTokenPattern = regexp.MustCompile(`\[\[[^\]]*\]\]`)

// Renderer renders embedded template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the filesystem and executes
	// it with the given data. Returns ErrMissingTemplateKey if a key is
	// missing and ErrUnexpandedToken if tokens remain after rendering.
	Render(templateName string, data any) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
// In production the fs.FS comes from go:embed; in tests use
// testing/fstest.MapFS.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with missingkey=error.
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	tmpl, err := template.New(templateName).
		Delims(delimLeft, delimRight).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}

	result := buf.Bytes()
	if loc := unexpandedTokenPattern.Find(result); loc != nil {
		return nil, fmt.Errorf("%w: found %q", ErrUnexpandedToken, string(loc))
	}

	return result, nil
}
