package workload

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
)

// scriptError is an exception raised by the workshop script, annotated with
// the JS stack trace and the script exit code.
type scriptError struct {
	inner *goja.Exception
}

var (
	_ errext.Exception   = &scriptError{}
	_ errext.HasExitCode = &scriptError{}
)

func (s *scriptError) Error() string {
	return s.inner.Error()
}

func (s *scriptError) StackTrace() string {
	return s.inner.String()
}

func (s *scriptError) Unwrap() error {
	return s.inner
}

func (s *scriptError) ExitCode() exitcodes.ExitCode {
	return exitcodes.ScriptException
}

// wrapJSError annotates goja exceptions; other errors (compilation errors,
// for example) just get the script exit code attached.
func wrapJSError(err error) error {
	if err == nil {
		return nil
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return &scriptError{inner: ex}
	}
	return errext.WithExitCodeIfNone(err, exitcodes.ScriptException)
}
