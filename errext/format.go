package errext

import "errors"

// Format formats the given error as a message and a map of log fields. For
// script exceptions the stack trace becomes the message, and hints are added
// as a field.
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	errText := err.Error()
	var xerr Exception
	if errors.As(err, &xerr) {
		errText = xerr.StackTrace()
	}

	fields := make(map[string]interface{})
	var herr HasHint
	if errors.As(err, &herr) {
		fields["hint"] = herr.Hint()
	}

	return errText, fields
}
