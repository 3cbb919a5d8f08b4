package shell

import (
	"errors"
	"fmt"
)

var (
	ErrTokenize        = errors.New("parse error")
	ErrEmptyCommand    = errors.New("empty command")
	ErrMissingArgument = errors.New("missing argument")
	ErrCommandNotFound = errors.New("command not found")
	ErrSpawnFailure    = errors.New("failed to execute")
	ErrPathChange      = errors.New("cannot change directory")
	ErrWorkingDir      = errors.New("cannot read working directory")

	// ErrHomeNotSet is fatal: cd ~ cannot proceed without HOME.
	ErrHomeNotSet = errors.New("HOME not set")
)

// ExitError asks the caller to release the terminal and terminate with Code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// commandError carries the message shown to the user together with its kind and cause.
type commandError struct {
	kind  error
	msg   string
	cause error
}

func newCommandError(kind error, cause error, format string, args ...any) error {
	return &commandError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *commandError) Error() string {
	return e.msg
}

func (e *commandError) Is(target error) bool {
	return target == e.kind
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// IsFatal reports whether err must end the session rather than be printed.
func IsFatal(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) || errors.Is(err, ErrHomeNotSet)
}
