package errors

import "strings"

// Errors is a non-empty list of errors. A nil Errors means no error occurred.
type Errors []error

func (m Errors) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

// Combine merges e and f into a single error. Nil inputs are dropped, so
// Combine(nil, nil) is nil and Combine(e, nil) is e.
func Combine(e, f error) error {
	switch {
	case e == nil:
		return f
	case f == nil:
		return e
	}
	var out Errors
	for _, err := range []error{e, f} {
		if errs, ok := err.(Errors); ok {
			out = append(out, errs...)
		} else {
			out = append(out, err)
		}
	}
	return out
}

// Defer runs f and folds its error into *err. Use it for deferred Close calls:
//
//   defer errors.Defer(&err, w.Close)
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
