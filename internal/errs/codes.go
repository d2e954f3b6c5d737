package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error kind that the route layer maps to a response.
type Code string

const (
	CodeForbiddenOperation   Code = "FORBIDDEN_OPERATION"
	CodeDeliberationDisabled Code = "DELIBERATION_DISABLED"
	CodeProposalNotFound     Code = "PROPOSAL_NOT_FOUND"
	CodeEventNotFound        Code = "EVENT_NOT_FOUND"
	CodeSequenceAllocation   Code = "SEQUENCE_ALLOCATION"
	CodeCfpClosed            Code = "CFP_CLOSED"
	CodeInvalidTransition    Code = "INVALID_TRANSITION"
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
)

// Sentinels for errors.Is; matching is by code, so any *Error carrying the
// same code satisfies them regardless of message or metadata.
var (
	ErrForbiddenOperation   = &Error{Code: CodeForbiddenOperation, Message: "forbidden operation"}
	ErrDeliberationDisabled = &Error{Code: CodeDeliberationDisabled, Message: "deliberation is disabled"}
	ErrProposalNotFound     = &Error{Code: CodeProposalNotFound, Message: "proposal not found"}
	ErrEventNotFound        = &Error{Code: CodeEventNotFound, Message: "event not found"}
	ErrSequenceAllocation   = &Error{Code: CodeSequenceAllocation, Message: "proposal number allocation failed"}
	ErrCfpClosed            = &Error{Code: CodeCfpClosed, Message: "call for papers is closed"}
	ErrInvalidTransition    = &Error{Code: CodeInvalidTransition, Message: "invalid proposal transition"}
	ErrInvalidArgument      = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
)

// Error is the engine's coded error.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithMetadata creates a coded error carrying key/value context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Coded wraps cause under a code.
func Coded(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the outermost coded error in the chain, or "".
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// IsRetryable reports whether the caller may retry the whole operation once.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSequenceAllocation)
}

// IsAuthorization reports whether err must be surfaced without leaking data.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrForbiddenOperation) || errors.Is(err, ErrProposalNotFound)
}
