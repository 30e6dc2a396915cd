package circuit

import (
	"errors"
	"fmt"
)

// ImporterError is an error raised by the facade itself, as opposed to a
// rejection raised by the runtime (which is passed through untouched).
type ImporterError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Binding names the offending constructor for setup errors.
	Binding string

	// Namespace is the runtime namespace bindings were resolved from.
	Namespace string

	// Err is the underlying runtime error, if any.
	Err error
}

// ErrorCode categorizes facade errors.
type ErrorCode string

const (
	// ErrCodeBindingMissing indicates a constructor could not be located.
	ErrCodeBindingMissing ErrorCode = "BINDING_MISSING"

	// ErrCodeBindingKind indicates a constructor resolved to something that is not a type.
	ErrCodeBindingKind ErrorCode = "BINDING_KIND"

	// ErrCodeBitSnapshot indicates a register's bit list did not match its declared size.
	ErrCodeBitSnapshot ErrorCode = "BIT_SNAPSHOT"

	// ErrCodeInternalLogic indicates a caller broke a precondition it was expected to enforce.
	ErrCodeInternalLogic ErrorCode = "INTERNAL_LOGIC"

	// ErrCodeIndexOutOfRange indicates a bit index past the end of a register.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
)

// Error implements the error interface.
func (e *ImporterError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Binding != "" {
		msg = fmt.Sprintf("%s (binding=%s.%s)", msg, e.Namespace, e.Binding)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying runtime error.
func (e *ImporterError) Unwrap() error {
	return e.Err
}

func hasCode(err error, codes ...ErrorCode) bool {
	var ie *ImporterError
	if !errors.As(err, &ie) {
		return false
	}
	for _, c := range codes {
		if ie.Code == c {
			return true
		}
	}
	return false
}

// IsBindingError reports whether err is a setup-time binding resolution failure.
func IsBindingError(err error) bool {
	return hasCode(err, ErrCodeBindingMissing, ErrCodeBindingKind)
}

// IsInternalError reports whether err signals a logic defect in the caller.
func IsInternalError(err error) bool {
	return hasCode(err, ErrCodeInternalLogic)
}

// IsIndexError reports whether err is an out-of-range bit lookup.
func IsIndexError(err error) bool {
	return hasCode(err, ErrCodeIndexOutOfRange)
}
