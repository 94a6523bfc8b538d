package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// RenderContext provides data for template rendering during project
// materialization. All fields are exported for use with text/template.
type RenderContext struct {
	// Project
	ProjectName string
	Description string
	SiteURL     string
	Package     string

	// Authors
	AuthorsJSON     string // JSON list of raw "name <email>" entries
	AuthorLine      string // display names joined with ", "
	SiteDescription string
	Copyright       string

	// Versions
	MinPyVersion string // e.g. "3.9"
	MypyTarget   string // e.g. "py39"

	// License identifier embedded in the build manifest ("MIT" or "").
	License string

	// CI
	PythonVersions string // e.g. `["3.9", "3.10"]`
	Schedule       string // cron stanza for the hook-update workflow, or ""
}

// authorEmailSuffix matches a trailing "<...>" email suffix.
var authorEmailSuffix = regexp.MustCompile(`(?s)(.+) <.+>`)

// ParseAuthors splits a comma separated author field into trimmed,
// non-empty raw entries and their display names ("My Name <my@email>"
// yields "My Name"; entries without an email suffix pass through).
func ParseAuthors(raw string) (entries, names []string) {
	for _, part := range strings.Split(raw, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
		if m := authorEmailSuffix.FindStringSubmatch(entry); m != nil {
			names = append(names, strings.TrimSpace(m[1]))
		} else {
			names = append(names, entry)
		}
	}
	return entries, names
}

// PythonVersionRange renders the inclusive minor-version range between
// two python3 versions as a YAML flow list for the test matrix,
// e.g. ("3.9", "3.11") -> `["3.9", "3.10", "3.11"]`.
func PythonVersionRange(minVersion, maxVersion string) (string, error) {
	minMinor, err := minorOf(minVersion)
	if err != nil {
		return "", err
	}
	maxMinor, err := minorOf(maxVersion)
	if err != nil {
		return "", err
	}
	versions := make([]string, 0, maxMinor-minMinor+1)
	for minor := minMinor; minor <= maxMinor; minor++ {
		versions = append(versions, fmt.Sprintf("%q", fmt.Sprintf("3.%d", minor)))
	}
	return "[" + strings.Join(versions, ", ") + "]", nil
}

func minorOf(version string) (int, error) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, fmt.Errorf("template: not a python3 version: %q", version)
	}
	var minor int
	if _, err := fmt.Sscanf(parts[1], "%d", &minor); err != nil {
		return 0, fmt.Errorf("template: not a python3 version: %q", version)
	}
	return minor, nil
}

// mustJSON marshals small values for embedding in rendered manifests.
// Failure is an authoring defect.
func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("template: marshal context value: %v", err))
	}
	return string(b)
}
