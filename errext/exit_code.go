// Package errext contains extensions for normal Go errors that are used in the
// workshop CLI, mainly to carry process exit codes and user hints alongside the
// error message.
package errext

import (
	"errors"

	"github.com/perfworkshop/workshop/errext/exitcodes"
)

// HasExitCode is a wrapper around an error with an attached exit code. When an
// error with an exit code bubbles up to the top of the CLI, the process exits
// with that code.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

// WithExitCodeIfNone attaches an exit code to the given error, unless it
// already has one. A nil error is returned as-is.
func WithExitCodeIfNone(err error, exitCode exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return err
	}
	return withExitCode{err, exitCode}
}

type withExitCode struct {
	error
	exitCode exitcodes.ExitCode
}

func (wh withExitCode) Unwrap() error {
	return wh.error
}

func (wh withExitCode) ExitCode() exitcodes.ExitCode {
	return wh.exitCode
}

var _ HasExitCode = withExitCode{}
