package errors

import "fmt"

// Process exit codes.
const (
	ExitCodeFailure = 1
	// ExitCodeGate signals that the run completed but the --fail-on expression tripped.
	ExitCodeGate = 2
)

// CommandError represents an error that ends a command with a specific exit code.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with an exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Err:         err,
	}
}

// NewGateError reports a tripped gate expression.
func NewGateError(expr string) *CommandError {
	return NewCommandError(fmt.Errorf("gate %q tripped", expr), ExitCodeGate)
}
