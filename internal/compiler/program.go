package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/qbridge/internal/ir"
)

// CompileProgram parses a CUE value into a Program.
// Uses the CUE Go API directly, no CLI subprocess.
//
// The value is the program struct itself:
//
//	name: "bell"
//	body: [
//		{qreg: {name: "q", size: 2}},
//		{apply: {gate: "h", qubits: ["q[0]"]}},
//	]
//
// CompileProgram only checks shape. Use ValidateProgram for semantic checks.
func CompileProgram(v cue.Value) (*ir.Program, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	prog := &ir.Program{Name: name}

	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		prog.Description, err = d.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	body := v.LookupPath(cue.ParsePath("body"))
	if !body.Exists() {
		return nil, &CompileError{Field: "body", Message: "body is required", Pos: v.Pos()}
	}
	items, err := body.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; items.Next(); i++ {
		st, err := parseStatement(items.Value(), i)
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, st)
	}
	return prog, nil
}

// parseStatement reads one body entry. The entry must have exactly one of
// the statement keys.
func parseStatement(v cue.Value, i int) (ir.Statement, error) {
	field := fmt.Sprintf("body[%d]", i)
	fields, err := v.Fields()
	if err != nil {
		return ir.Statement{}, formatCUEError(err)
	}

	var st ir.Statement
	n := 0
	for fields.Next() {
		n++
		if n > 1 {
			return ir.Statement{}, &CompileError{Field: field, Message: "statement must have exactly one key", Pos: v.Pos()}
		}
		label := fields.Label()
		val := fields.Value()
		path := field + "." + label
		switch ir.StatementKind(label) {
		case ir.KindQReg:
			st.QReg, err = parseRegister(val, path)
		case ir.KindCReg:
			st.CReg, err = parseRegister(val, path)
		case ir.KindQubit:
			st.Qubit, err = parseBit(val, path)
		case ir.KindClbit:
			st.Clbit, err = parseBit(val, path)
		case ir.KindGate:
			st.Gate, err = parseGate(val, path)
		case ir.KindApply:
			st.Apply, err = parseApply(val, path)
		default:
			return ir.Statement{}, &CompileError{Field: path, Message: "unknown statement kind", Pos: val.Pos()}
		}
		if err != nil {
			return ir.Statement{}, err
		}
	}
	if n == 0 {
		return ir.Statement{}, &CompileError{Field: field, Message: "empty statement", Pos: v.Pos()}
	}
	return st, nil
}

func parseRegister(v cue.Value, path string) (*ir.RegisterDecl, error) {
	name, err := requiredString(v, path+".name")
	if err != nil {
		return nil, err
	}
	size, err := requiredInt(v, path+".size")
	if err != nil {
		return nil, err
	}
	return &ir.RegisterDecl{Name: name, Size: size}, nil
}

func parseBit(v cue.Value, path string) (*ir.BitDecl, error) {
	name, err := requiredString(v, path+".name")
	if err != nil {
		return nil, err
	}
	return &ir.BitDecl{Name: name}, nil
}

func parseGate(v cue.Value, path string) (*ir.GateDecl, error) {
	g := &ir.GateDecl{}
	var err error
	if g.Name, err = requiredString(v, path+".name"); err != nil {
		return nil, err
	}
	if g.Params, err = requiredInt(v, path+".params"); err != nil {
		return nil, err
	}
	if g.Qubits, err = requiredInt(v, path+".qubits"); err != nil {
		return nil, err
	}
	if c := v.LookupPath(cue.ParsePath("constructor")); c.Exists() {
		if g.Constructor, err = c.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	return g, nil
}

func parseApply(v cue.Value, path string) (*ir.Apply, error) {
	a := &ir.Apply{}
	var err error
	if a.Gate, err = requiredString(v, path+".gate"); err != nil {
		return nil, err
	}
	if p := v.LookupPath(cue.ParsePath("params")); p.Exists() {
		list, err := p.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for list.Next() {
			f, err := list.Value().Float64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			a.Params = append(a.Params, f)
		}
	}
	qubits := v.LookupPath(cue.ParsePath("qubits"))
	if !qubits.Exists() {
		return nil, &CompileError{Field: path + ".qubits", Message: "qubits is required", Pos: v.Pos()}
	}
	if a.Qubits, err = stringList(qubits); err != nil {
		return nil, err
	}
	if c := v.LookupPath(cue.ParsePath("clbits")); c.Exists() {
		if a.Clbits, err = stringList(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// requiredString reads the last element of a dotted field path from v.
func requiredString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(lastLabel(field)))
	if !f.Exists() {
		return "", &CompileError{Field: field, Message: "field is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func requiredInt(v cue.Value, field string) (int, error) {
	f := v.LookupPath(cue.ParsePath(lastLabel(field)))
	if !f.Exists() {
		return 0, &CompileError{Field: field, Message: "field is required", Pos: v.Pos()}
	}
	n, err := f.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func stringList(v cue.Value) ([]string, error) {
	list, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := []string{}
	for list.Next() {
		s, err := list.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

func lastLabel(field string) string {
	return field[strings.LastIndex(field, ".")+1:]
}
