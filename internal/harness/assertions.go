package harness

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// AssertionError is returned when an expect field does not match.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Field    string // expect field name
	Expected string // human-readable expected outcome
	Actual   string // human-readable actual outcome
	Diff     string // cmp.Diff output, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "expect.%s mismatch\n", e.Field)
	if e.Diff != "" {
		fmt.Fprintf(&buf, "  (-want +got):\n%s", e.Diff)
		return strings.TrimRight(buf.String(), "\n")
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// equateEmpty treats a nil slice and an empty one as equal, so "params: []"
// and an omitted params key read the same.
var equateEmpty = cmpopts.EquateEmpty()

// EvaluateExpect compares a result against an expect clause and returns one
// message per mismatching field.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []error

	if result.ErrorCode != expect.ErrorCode {
		errs = append(errs, &AssertionError{
			Field:    "error_code",
			Expected: describeCode(expect.ErrorCode),
			Actual:   describeFailure(result),
		})
	}
	if expect.ErrorStatement != nil && result.ErrorStatement != *expect.ErrorStatement {
		errs = append(errs, &AssertionError{
			Field:    "error_statement",
			Expected: fmt.Sprintf("body[%d]", *expect.ErrorStatement),
			Actual:   fmt.Sprintf("body[%d]", result.ErrorStatement),
		})
	}

	if result.Snapshot != nil {
		snap := result.Snapshot
		errs = appendDiff(errs, "qregs", expect.QRegs, snap.QRegs)
		errs = appendDiff(errs, "cregs", expect.CRegs, snap.CRegs)
		errs = appendDiff(errs, "qubits", expect.Qubits, snap.Qubits)
		errs = appendDiff(errs, "clbits", expect.Clbits, snap.Clbits)
		errs = appendDiff(errs, "instructions", expect.Instructions, snap.Instructions)
	} else if hasCircuitExpectations(expect) {
		errs = append(errs, &AssertionError{
			Field:    "circuit",
			Expected: "a finished circuit",
			Actual:   describeFailure(result),
		})
	}

	if expect.Gates != nil {
		names := make([]string, len(result.Gates))
		for i, g := range result.Gates {
			names[i] = g.Name
		}
		errs = appendDiff(errs, "gates", expect.Gates, names)
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return msgs
}

// appendDiff compares only when want was given. A field written as an
// empty list ("cregs: []") decodes to a non-nil slice and is checked.
func appendDiff[T any](errs []error, field string, want, got []T) []error {
	if want == nil {
		return errs
	}
	if diff := cmp.Diff(want, got, equateEmpty); diff != "" {
		errs = append(errs, &AssertionError{Field: field, Diff: diff})
	}
	return errs
}

func hasCircuitExpectations(e Expect) bool {
	return e.QRegs != nil || e.CRegs != nil || e.Qubits != nil || e.Clbits != nil || e.Instructions != nil
}

func describeCode(code string) string {
	if code == "" {
		return "success"
	}
	return code
}

func describeFailure(result *Result) string {
	if result.ErrorCode == "" {
		return "success"
	}
	return fmt.Sprintf("%s (%s)", result.ErrorCode, result.ErrorMessage)
}
