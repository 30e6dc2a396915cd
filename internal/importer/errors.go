package importer

import (
	"errors"
	"fmt"

	"github.com/roach88/qbridge/internal/circuit"
	"github.com/roach88/qbridge/internal/runtime"
)

// ImportError is a failure while executing one program statement.
//
// Facade and runtime failures are kept in Err so circuit.IsInternalError,
// runtime.IsKind and friends still see them through the wrap.
type ImportError struct {
	// Code identifies the error category.
	Code ImportErrorCode

	// Message is a human-readable description.
	Message string

	// Statement is the body index, or -1 for setup failures.
	Statement int

	// Err is the underlying facade or runtime error, if any.
	Err error
}

// ImportErrorCode categorizes import errors.
type ImportErrorCode string

const (
	// ErrCodeSetup indicates the runtime bindings could not be resolved.
	ErrCodeSetup ImportErrorCode = "SETUP"

	// ErrCodeUnknownGate indicates an apply names a gate nobody declared.
	ErrCodeUnknownGate ImportErrorCode = "UNKNOWN_GATE"

	// ErrCodeUndefinedOperand indicates an operand names no declared bit.
	ErrCodeUndefinedOperand ImportErrorCode = "UNDEFINED_OPERAND"

	// ErrCodeInvalidStatement indicates a statement with zero or several fields.
	ErrCodeInvalidStatement ImportErrorCode = "INVALID_STATEMENT"

	// ErrCodeStatementFailed indicates the facade or runtime rejected a call.
	ErrCodeStatementFailed ImportErrorCode = "STATEMENT_FAILED"

	// ErrCodeCanceled indicates the context was canceled between statements.
	ErrCodeCanceled ImportErrorCode = "CANCELED"
)

// Error implements the error interface.
func (e *ImportError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Statement >= 0 {
		msg = fmt.Sprintf("%s (body[%d])", msg, e.Statement)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// ErrorCode reports the most specific code for err: the facade's
// ImporterError code, else the runtime error kind, else the ImportError
// code. Returns "" for nil and "ERROR" for anything else.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var fe *circuit.ImporterError
	if errors.As(err, &fe) {
		return string(fe.Code)
	}
	var re *runtime.Error
	if errors.As(err, &re) {
		return re.Kind
	}
	var ie *ImportError
	if errors.As(err, &ie) {
		return string(ie.Code)
	}
	return "ERROR"
}
