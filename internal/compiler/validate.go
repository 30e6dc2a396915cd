package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/qbridge/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrProgramNameEmpty   = "E201" // program name is required
	ErrInvalidStatement   = "E202" // statement must set exactly one field
	ErrInvalidRegister    = "E203" // bad register name or size
	ErrDuplicateName      = "E204" // name declared twice
	ErrInvalidGateDecl    = "E205" // bad gate name or arity
	ErrUnknownGate        = "E206" // apply references an undeclared gate
	ErrParamCount         = "E207" // wrong number of parameters
	ErrOperandCount       = "E208" // wrong number of qubit or clbit operands
	ErrInvalidOperand     = "E209" // operand is not name or name[index]
	ErrUndefinedOperand   = "E210" // operand names nothing declared so far
	ErrOperandOutOfRange  = "E211" // register index past the end
	ErrDuplicateOperand   = "E212" // the same bit used twice in one apply
	ErrShadowStandardGate = "E213" // custom gate reuses a standard gate name
)

// ValidationError represents a semantic problem in a program.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// bitSpace is what an operand name can refer to.
type bitSpace struct {
	quantum bool
	size    int // -1 for a loose bit
}

// ValidateProgram checks a program in body order, the way the importer will
// execute it: names must be declared before use and every apply must match
// its gate's arities. Returns all errors found (does not fail-fast).
func ValidateProgram(p *ir.Program) []ValidationError {
	v := &validator{
		names: make(map[string]bitSpace),
		gates: make(map[string]ir.GateSig),
	}
	for _, g := range ir.StandardGates {
		v.gates[g.Name] = g
	}

	if p.Name == "" {
		v.add("name", ErrProgramNameEmpty, "program name is required")
	}
	for i, st := range p.Body {
		field := fmt.Sprintf("body[%d]", i)
		switch st.Kind() {
		case ir.KindQReg:
			v.register(field+".qreg", st.QReg, true)
		case ir.KindCReg:
			v.register(field+".creg", st.CReg, false)
		case ir.KindQubit:
			v.bit(field+".qubit", st.Qubit, true)
		case ir.KindClbit:
			v.bit(field+".clbit", st.Clbit, false)
		case ir.KindGate:
			v.gate(field+".gate", st.Gate)
		case ir.KindApply:
			v.apply(field+".apply", st.Apply)
		default:
			v.add(field, ErrInvalidStatement, "statement must set exactly one of qreg, creg, qubit, clbit, gate, apply")
		}
	}
	return v.errs
}

type validator struct {
	names map[string]bitSpace
	gates map[string]ir.GateSig
	errs  []ValidationError
}

func (v *validator) add(field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) declare(field, name string, space bitSpace) {
	if _, dup := v.names[name]; dup {
		v.add(field+".name", ErrDuplicateName, "%q is already declared", name)
		return
	}
	v.names[name] = space
}

func (v *validator) register(field string, r *ir.RegisterDecl, quantum bool) {
	if !identifier.MatchString(r.Name) {
		v.add(field+".name", ErrInvalidRegister, "invalid register name %q", r.Name)
		return
	}
	if r.Size < 0 {
		v.add(field+".size", ErrInvalidRegister, "register %s has negative size %d", r.Name, r.Size)
		return
	}
	v.declare(field, r.Name, bitSpace{quantum: quantum, size: r.Size})
}

func (v *validator) bit(field string, b *ir.BitDecl, quantum bool) {
	if !identifier.MatchString(b.Name) {
		v.add(field+".name", ErrInvalidOperand, "invalid bit name %q", b.Name)
		return
	}
	v.declare(field, b.Name, bitSpace{quantum: quantum, size: -1})
}

func (v *validator) gate(field string, g *ir.GateDecl) {
	if !identifier.MatchString(g.Name) {
		v.add(field+".name", ErrInvalidGateDecl, "invalid gate name %q", g.Name)
		return
	}
	if g.Params < 0 || g.Qubits < 0 {
		v.add(field, ErrInvalidGateDecl, "gate %s has negative arity (params=%d, qubits=%d)", g.Name, g.Params, g.Qubits)
		return
	}
	if _, std := ir.LookupStandardGate(g.Name); std {
		v.add(field+".name", ErrShadowStandardGate, "gate %q is a standard gate", g.Name)
		return
	}
	if _, dup := v.gates[g.Name]; dup {
		v.add(field+".name", ErrDuplicateName, "gate %q is already declared", g.Name)
		return
	}
	v.gates[g.Name] = ir.GateSig{Name: g.Name, Constructor: g.Constructor, Params: g.Params, Qubits: g.Qubits}
}

func (v *validator) apply(field string, a *ir.Apply) {
	sig, ok := v.gates[a.Gate]
	if !ok {
		v.add(field+".gate", ErrUnknownGate, "unknown gate %q", a.Gate)
		return
	}
	if len(a.Params) != sig.Params {
		v.add(field+".params", ErrParamCount, "%s takes %d parameters, got %d", a.Gate, sig.Params, len(a.Params))
	}
	if len(a.Qubits) != sig.Qubits {
		v.add(field+".qubits", ErrOperandCount, "%s acts on %d qubits, got %d", a.Gate, sig.Qubits, len(a.Qubits))
	}
	if len(a.Clbits) != sig.Clbits {
		v.add(field+".clbits", ErrOperandCount, "%s writes %d clbits, got %d", a.Gate, sig.Clbits, len(a.Clbits))
	}

	seen := make(map[string]bool)
	v.operands(field+".qubits", a.Qubits, true, seen)
	v.operands(field+".clbits", a.Clbits, false, seen)
}

func (v *validator) operands(field string, ops []string, quantum bool, seen map[string]bool) {
	for i, raw := range ops {
		f := fmt.Sprintf("%s[%d]", field, i)
		op, err := ir.ParseOperand(raw)
		if err != nil {
			v.add(f, ErrInvalidOperand, "%v", err)
			continue
		}
		space, ok := v.names[op.Name]
		if !ok || space.quantum != quantum || (space.size < 0) != op.IsLoose() {
			kind := "clbit"
			if quantum {
				kind = "qubit"
			}
			v.add(f, ErrUndefinedOperand, "%s does not name a declared %s", op, kind)
			continue
		}
		if !op.IsLoose() && op.Index >= space.size {
			v.add(f, ErrOperandOutOfRange, "%s is out of range for register %s of size %d", op, op.Name, space.size)
			continue
		}
		if seen[op.String()] {
			v.add(f, ErrDuplicateOperand, "%s is used twice", op)
			continue
		}
		seen[op.String()] = true
	}
}
