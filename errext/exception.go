package errext

// Exception represents errors that resulted from an exception inside the
// workshop script and carry the JS stack trace that led to them.
type Exception interface {
	error
	StackTrace() string
}
