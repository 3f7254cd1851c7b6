package domain

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateContribution = errors.New("duplicate contribution")
	ErrInvalidState          = errors.New("invalid state")
	ErrTransientConflict     = errors.New("transient conflict")
	ErrRateLimited           = errors.New("rate limited")
)

// Error carries a kind and a human readable reason for the caller.
type Error struct {
	Kind   error
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// GRPCStatus lets grpc transports surface the kind without a translation table.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(codeOf(e.Kind), e.Reason)
}

// Retryable reports whether the caller may safely repeat the operation.
func (e *Error) Retryable() bool {
	return e.Kind == ErrTransientConflict || e.Kind == ErrRateLimited
}

func codeOf(kind error) codes.Code {
	switch kind {
	case ErrNotFound:
		return codes.NotFound
	case ErrInvalidInput:
		return codes.InvalidArgument
	case ErrDuplicateContribution:
		return codes.AlreadyExists
	case ErrInvalidState:
		return codes.FailedPrecondition
	case ErrTransientConflict:
		return codes.Aborted
	case ErrRateLimited:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func InvalidInput(format string, args ...any) error {
	return newError(ErrInvalidInput, format, args...)
}

func DuplicateContribution(format string, args ...any) error {
	return newError(ErrDuplicateContribution, format, args...)
}

func InvalidState(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}

func RateLimited(format string, args ...any) error {
	return newError(ErrRateLimited, format, args...)
}

// TransientConflict wraps the last storage error seen before retries ran out.
func TransientConflict(cause error, format string, args ...any) error {
	e := newError(ErrTransientConflict, format, args...)
	e.Err = cause
	return e
}

// KindOf returns the kind of err, or nil for errors outside the taxonomy.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
