package errors

import (
	"errors"
	"strings"
)

type MultiError struct {
	msg    string
	errors []error
}

func NewMultiError(msg string) *MultiError {
	return &MultiError{
		msg: msg,
	}
}

func (m *MultiError) Append(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

func (m *MultiError) Errors() []error {
	return m.errors
}

func (m *MultiError) Unwrap() []error {
	return m.errors
}

func (m *MultiError) Error() string {
	errStrs := make([]string, len(m.errors))
	for i, err := range m.errors {
		errStrs[i] = err.Error()
	}
	return m.msg + ":\n " + strings.Join(errStrs, "\n ")
}

func IsEmptyError(err error) bool {
	var me *MultiError
	if errors.As(err, &me) {
		return len(me.errors) == 0
	}
	return false
}

// MultiToError returns nil for a nil or empty multi error, the error itself otherwise
func MultiToError(e error) error {
	if e == nil {
		return nil
	}
	var me *MultiError
	if errors.As(e, &me) {
		if me == nil || len(me.errors) == 0 {
			return nil
		}
		return me
	}
	return e
}
