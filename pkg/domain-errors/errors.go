// Package domainerrors defines the coded error values shared across modules.
//
// Errors carry a stable machine-readable code so transport layers can map
// them to status codes and operators can grep logs without parsing free
// text. Construct with New at the point of failure, or Wrap to attach a
// code to an underlying cause while keeping the chain intact for errors.Is.
package domainerrors

import "errors"

// Code identifies a class of failure.
type Code string

const (
	// CodeInvalidInput marks a domain value that failed parsing at a trust
	// boundary (enum allowlists, id formats).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a structurally broken request (missing fields,
	// undecodable body).
	CodeBadRequest Code = "bad_request"

	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"

	// CodeConfiguration marks a defective rule table or wiring. Fatal for
	// the evaluation at hand and never user-correctable; it must reach the
	// operator, not the applicant.
	CodeConfiguration Code = "configuration_error"

	// CodeExternalLookup marks a transient failure of a collaborator
	// lookup. Callers degrade to the fail-closed path and may retry.
	CodeExternalLookup Code = "external_lookup_failed"

	CodeInternal Code = "internal_error"
)

// Error is the concrete coded error type.
type Error struct {
	code    Code
	message string
	cause   error
}

// New constructs a coded error with a human-readable message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Code returns the machine-readable failure class.
func (e *Error) Code() Code { return e.code }

// Message returns the message without the cause chain.
func (e *Error) Message() string { return e.message }

func (e *Error) Unwrap() error { return e.cause }

// CodeOf extracts the code from an error chain. Unknown errors are treated
// as internal so nothing accidental leaks to clients.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
