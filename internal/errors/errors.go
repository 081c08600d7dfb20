package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

func (s ErrorType) String() string {
	return strings.ToLower(string(s))
}

const (
	ErrMissingConfig   ErrorType = "Missing Configuration"
	ErrNotFound        ErrorType = "Not Found"
	ErrAlreadyExists   ErrorType = "Resource Already Exists"
	ErrInvalidArgument ErrorType = "Invalid Argument"
	ErrRemoteCall      ErrorType = "Remote Call Failed"
	ErrTimeout         ErrorType = "Timeout"
)

type DomainError struct {
	ErrorType  ErrorType
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType ErrorType, entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: errType,
		Entity:    entity,
		Message:   msg,
	}
}

func MissingConfig(entity, msg string) *DomainError {
	return NewError(ErrMissingConfig, entity, msg)
}

func NotFound(entity, msg string) *DomainError {
	return NewError(ErrNotFound, entity, msg)
}

func AlreadyExists(entity, msg string) *DomainError {
	return NewError(ErrAlreadyExists, entity, msg)
}

func InvalidArgument(entity, msg string) *DomainError {
	return NewError(ErrInvalidArgument, entity, msg)
}

func Timeout(entity, msg string) *DomainError {
	return NewError(ErrTimeout, entity, msg)
}

// RemoteCall wraps an error returned by a vendor API call
func RemoteCall(entity, msg string, err error) *DomainError {
	return &DomainError{
		ErrorType:  ErrRemoteCall,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

func Wrap(entity, msg string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return &DomainError{
			ErrorType:  de.ErrorType,
			Entity:     entity,
			Message:    msg,
			WrappedErr: err,
		}
	}
	return RemoteCall(entity, msg, err)
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%v for entity %v: %v", e.ErrorType.String(), e.Entity, e.Message)
	if e.WrappedErr != nil {
		msg += ": " + e.WrappedErr.Error()
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

// IsErrorType reports whether any error in the chain is a DomainError of the given type
func IsErrorType(err error, errType ErrorType) bool {
	var de *DomainError
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.ErrorType == errType {
			return true
		}
		err = de.WrappedErr
	}
	return false
}

// IsAlreadyExists detects the vendor "already exists" family of messages as well as
// the typed error, the vendor API does not expose a stable code for it.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if IsErrorType(err, ErrAlreadyExists) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "AlreadyExists") || strings.Contains(strings.ToLower(msg), "already exist")
}
