package errext

import "errors"

// HasHint is a wrapper around an error with an attached user hint. Hints give
// extra human-readable information about the error, including suggestions on
// how it can be fixed.
type HasHint interface {
	error
	Hint() string
}

// WithHint attaches a hint to the given error. If the error already had a
// hint, the new one wraps it as "new hint (old hint)". A nil error stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return withHint{err, hint}
}

type withHint struct {
	error
	hint string
}

func (wh withHint) Unwrap() error {
	return wh.error
}

func (wh withHint) Hint() string {
	hint := wh.hint
	var oldhint HasHint
	if errors.As(wh.error, &oldhint) {
		hint = hint + " (" + oldhint.Hint() + ")"
	}
	return hint
}

var _ HasHint = withHint{}
