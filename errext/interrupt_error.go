package errext

import (
	"errors"

	"github.com/perfworkshop/workshop/errext/exitcodes"
)

// InterruptError is the error used when a run is aborted from the outside, for
// example by a signal.
type InterruptError struct {
	Reason string
}

var _ HasExitCode = &InterruptError{}

// Error returns the reason of the interruption.
func (i *InterruptError) Error() string {
	return i.Reason
}

// ExitCode returns the status code used when the workshop process exits.
func (i *InterruptError) ExitCode() exitcodes.ExitCode {
	return exitcodes.ExternalAbort
}

// IsInterruptError returns true if err is *InterruptError.
func IsInterruptError(err error) bool {
	if err == nil {
		return false
	}
	var intErr *InterruptError
	return errors.As(err, &intErr)
}
