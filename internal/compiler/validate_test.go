package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/ir"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func program(body ...ir.Statement) *ir.Program {
	return &ir.Program{Name: "p", Body: body}
}

func qreg(name string, size int) ir.Statement {
	return ir.Statement{QReg: &ir.RegisterDecl{Name: name, Size: size}}
}

func creg(name string, size int) ir.Statement {
	return ir.Statement{CReg: &ir.RegisterDecl{Name: name, Size: size}}
}

func apply(gate string, params []float64, qubits []string, clbits ...string) ir.Statement {
	return ir.Statement{Apply: &ir.Apply{Gate: gate, Params: params, Qubits: qubits, Clbits: clbits}}
}

func TestValidateProgramValid(t *testing.T) {
	p := program(
		qreg("q", 2),
		creg("c", 1),
		ir.Statement{Qubit: &ir.BitDecl{Name: "anc"}},
		ir.Statement{Gate: &ir.GateDecl{Name: "rzz", Params: 1, Qubits: 2}},
		apply("h", nil, []string{"q[0]"}),
		apply("rzz", []float64{0.5}, []string{"q[1]", "anc"}),
		apply("r", []float64{1, 2}, []string{"anc"}),
		apply("measure", nil, []string{"q[0]"}, "c[0]"),
	)
	assert.Empty(t, ValidateProgram(p))
}

func TestValidateProgramErrors(t *testing.T) {
	tests := []struct {
		name string
		prog *ir.Program
		want []string
	}{
		{"missing name", &ir.Program{}, []string{ErrProgramNameEmpty}},
		{"empty statement", program(ir.Statement{}), []string{ErrInvalidStatement}},
		{"bad register name", program(qreg("0q", 1)), []string{ErrInvalidRegister}},
		{"negative size", program(qreg("q", -1)), []string{ErrInvalidRegister}},
		{"duplicate register", program(qreg("q", 1), creg("q", 1)), []string{ErrDuplicateName}},
		{"duplicate gate", program(
			ir.Statement{Gate: &ir.GateDecl{Name: "g", Qubits: 1}},
			ir.Statement{Gate: &ir.GateDecl{Name: "g", Qubits: 1}},
		), []string{ErrDuplicateName}},
		{"shadow standard", program(ir.Statement{Gate: &ir.GateDecl{Name: "cx", Qubits: 2}}), []string{ErrShadowStandardGate}},
		{"negative arity", program(ir.Statement{Gate: &ir.GateDecl{Name: "g", Params: -1}}), []string{ErrInvalidGateDecl}},
		{"unknown gate", program(qreg("q", 1), apply("t", nil, []string{"q[0]"})), []string{ErrUnknownGate}},
		{"param count", program(qreg("q", 1), apply("rz", nil, []string{"q[0]"})), []string{ErrParamCount}},
		{"qubit count", program(qreg("q", 2), apply("cx", nil, []string{"q[0]"})), []string{ErrOperandCount}},
		{"missing clbit", program(qreg("q", 1), apply("measure", nil, []string{"q[0]"})), []string{ErrOperandCount}},
		{"bad operand", program(qreg("q", 1), apply("h", nil, []string{"q[x]"})), []string{ErrInvalidOperand}},
		{"undeclared", program(apply("h", nil, []string{"q[0]"})), []string{ErrUndefinedOperand}},
		{"wrong kind", program(creg("c", 1), apply("h", nil, []string{"c[0]"})), []string{ErrUndefinedOperand}},
		{"register used as loose", program(qreg("q", 1), apply("h", nil, []string{"q"})), []string{ErrUndefinedOperand}},
		{"out of range", program(qreg("q", 2), apply("h", nil, []string{"q[2]"})), []string{ErrOperandOutOfRange}},
		{"duplicate operand", program(qreg("q", 2), apply("cx", nil, []string{"q[1]", "q[1]"})), []string{ErrDuplicateOperand}},
		{"use before declare", program(apply("h", nil, []string{"q[0]"}), qreg("q", 1)), []string{ErrUndefinedOperand}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(ValidateProgram(tt.prog)))
		})
	}
}

func TestValidateProgramCollectsAll(t *testing.T) {
	p := &ir.Program{Body: []ir.Statement{
		qreg("q", 1),
		apply("nope", nil, nil),
		apply("h", nil, []string{"q[5]"}),
	}}
	errs := ValidateProgram(p)
	require.Len(t, errs, 3)
	assert.Equal(t, []string{ErrProgramNameEmpty, ErrUnknownGate, ErrOperandOutOfRange}, codes(errs))
	assert.Equal(t, "body[2].apply.qubits[0]", errs[2].Field)
	assert.Contains(t, errs[2].Error(), "[E211]")
}
