package template

import "errors"

// Sentinel errors for template operations. Template problems are
// authoring defects in the embedded data, not user-recoverable
// conditions.
var (
	// ErrTemplateNotFound indicates the named template is not embedded.
	ErrTemplateNotFound = errors.New("template: template not found")

	// ErrMissingTemplateKey indicates a template referenced a key absent
	// from the render context.
	ErrMissingTemplateKey = errors.New("template: missing template key")

	// ErrUnexpandedToken indicates a placeholder survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token in rendered output")

	// ErrDestinationExists indicates the project directory already
	// exists. Materialization never merges into an existing tree.
	ErrDestinationExists = errors.New("template: destination already exists")
)
