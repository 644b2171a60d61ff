// Package domainerrors provides coded errors shared by services and
// transport. Stores return pkg/platform/sentinel errors; services translate
// them into coded errors here so handlers can map codes to HTTP statuses
// without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and policy decisions.
type Code string

const (
	// CodeNotFound covers absent resources, including lookups scoped to the
	// wrong tenant. Cross-tenant probes must be indistinguishable from a
	// genuinely missing record.
	CodeNotFound Code = "not_found"

	// CodeValidation covers missing or malformed caller input.
	CodeValidation Code = "validation"

	// CodeInvalidInput covers malformed identifiers and other trust-boundary
	// parse failures.
	CodeInvalidInput Code = "invalid_input"

	// CodeConflict covers uniqueness violations and stale-version writes.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation covers model-level invariant breaches, e.g. an
	// illegal status transition.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeForbidden covers authenticated callers lacking the required role.
	CodeForbidden Code = "forbidden"

	// CodeUnavailable covers dependencies that are down and not recoverable
	// by a local fallback.
	CodeUnavailable Code = "unavailable"

	// CodeInternal is the catch-all for unexpected failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Wrapped causes stay reachable through
// errors.Is/As.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err. Unknown errors map to
// a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
