package runtime

import (
	"errors"
	"fmt"
)

// Error is a failure raised by the runtime itself. Kind mirrors the runtime's
// own exception class ("AttributeError", "TypeError", "CircuitError", ...).
//
// qbridge never rewrites these; they reach the caller as the runtime raised them.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf creates a runtime Error of the given kind.
func Errorf(kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Runtime error kinds used by the reference runtime.
const (
	KindAttribute = "AttributeError"
	KindType      = "TypeError"
	KindImport    = "ImportError"
	KindIndex     = "IndexError"
	KindCircuit   = "CircuitError"
)

// IsKind reports whether err is a runtime Error of the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind string) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}
