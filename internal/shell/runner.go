// Package shell provides the external command execution collaborator:
// the seeding core treats git, poetry and pre-commit as opaque commands
// that either succeed or fail fatally.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

// CollaboratorError distinguishes which external collaborator failed
// from the underlying cause.
type CollaboratorError struct {
	Collaborator string // "command", "github", ...
	Err          error
}

// Error implements the error interface.
func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CollaboratorError) Unwrap() error { return e.Err }

// RunOptions adjust a single command execution.
type RunOptions struct {
	Dir      string            // working directory ("" = inherit)
	Env      map[string]string // extra environment variables
	Stdin    string            // input piped to the command
	Capture  bool              // capture combined output instead of streaming
	NonFatal bool              // a non-zero exit returns the result, not an error
}

// Result is the outcome of one command execution.
type Result struct {
	ExitCode int
	Output   string // combined output when captured
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, argv []string, opts RunOptions) (Result, error)
}

// ExecRunner runs commands with os/exec, logging each invocation.
type ExecRunner struct {
	log *ui.ActionLog
}

// NewExecRunner creates an ExecRunner logging to log.
func NewExecRunner(log *ui.ActionLog) *ExecRunner {
	return &ExecRunner{log: log}
}

// Run executes argv. When the log is disabled and output is not
// captured, output is buffered and replayed on failure so errors stay
// visible under --silent.
func (r *ExecRunner) Run(ctx context.Context, argv []string, opts RunOptions) (Result, error) {
	if len(argv) == 0 {
		return Result{}, &CollaboratorError{Collaborator: "command", Err: fmt.Errorf("empty argv")}
	}
	r.log.Action("RUN", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}

	var buf bytes.Buffer
	showOnErr := false
	switch {
	case opts.Capture:
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	case r.log.Enabled():
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	default:
		cmd.Stdout = &buf
		cmd.Stderr = &buf
		showOnErr = true
	}

	err := cmd.Run()
	res := Result{ExitCode: -1}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if opts.Capture || showOnErr {
		res.Output = buf.String()
	}
	if err != nil {
		if opts.NonFatal {
			return res, nil
		}
		if showOnErr {
			r.log.Errorf("%s", res.Output)
		}
		return res, &CollaboratorError{
			Collaborator: "command",
			Err:          fmt.Errorf("%s: %w", argv[0], err),
		}
	}
	return res, nil
}

// GitUser returns the configured git identity formatted as
// "name <email>", or false if either part is missing.
func GitUser(ctx context.Context) (string, bool) {
	parts := make([]string, 0, 2)
	for _, key := range []string{"name", "email"} {
		out, err := exec.CommandContext(ctx, "git", "config", "user."+key).Output()
		if err != nil {
			return "", false
		}
		val := strings.TrimSpace(string(out))
		if val == "" {
			return "", false
		}
		parts = append(parts, val)
	}
	return fmt.Sprintf("%s <%s>", parts[0], parts[1]), true
}

var _ Runner = (*ExecRunner)(nil)
