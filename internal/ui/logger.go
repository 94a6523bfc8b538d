package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ActionLog reports filesystem and process actions to a diagnostic stream
// ("+ WRITE path", "+ RUN cmd", ...). It replaces a global verbosity flag:
// the enabled state is set once at construction and threaded through the
// materializer and runners explicitly.
type ActionLog struct {
	out     io.Writer
	enabled bool

	action *color.Color
}

// NewActionLog creates an ActionLog writing to out. A disabled log
// discards everything.
func NewActionLog(out io.Writer, enabled bool) *ActionLog {
	if out == nil {
		out = os.Stderr
	}
	return &ActionLog{
		out:     out,
		enabled: enabled,
		action:  color.New(color.FgCyan),
	}
}

// Enabled reports whether the log emits output.
func (l *ActionLog) Enabled() bool {
	return l != nil && l.enabled
}

// Action logs one performed action, e.g. Action("WRITE", path).
func (l *ActionLog) Action(verb string, args ...any) {
	if !l.Enabled() {
		return
	}
	_, _ = l.action.Fprintf(l.out, "+ %s", verb)
	for _, a := range args {
		_, _ = fmt.Fprintf(l.out, " %v", a)
	}
	_, _ = fmt.Fprintln(l.out)
}

// Printf logs a plain diagnostic line.
func (l *ActionLog) Printf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	_, _ = fmt.Fprintf(l.out, format+"\n", args...)
}

// Errorf always writes to the stream, regardless of the enabled state.
// Errors are never suppressed by --silent.
func (l *ActionLog) Errorf(format string, args ...any) {
	out := io.Writer(os.Stderr)
	if l != nil && l.out != nil {
		out = l.out
	}
	_, _ = color.New(color.FgRed).Fprintf(out, format+"\n", args...)
}
