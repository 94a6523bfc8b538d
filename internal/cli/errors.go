package cli

// ExitError carries the process exit code for a failed run: 1 for
// failures before the project was fully set up, 2 afterwards (partial
// external state like a remote repository may already exist).
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }
