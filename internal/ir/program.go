package ir

import (
	"fmt"
	"regexp"
	"strconv"
)

// Program is the front-end's parsed form of a circuit program.
// Statements are executed strictly in Body order.
type Program struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Body        []Statement `json:"body" yaml:"body"`
}

// Statement is one entry of a program body. Exactly one field is set.
type Statement struct {
	QReg  *RegisterDecl `json:"qreg,omitempty" yaml:"qreg,omitempty"`
	CReg  *RegisterDecl `json:"creg,omitempty" yaml:"creg,omitempty"`
	Qubit *BitDecl      `json:"qubit,omitempty" yaml:"qubit,omitempty"`
	Clbit *BitDecl      `json:"clbit,omitempty" yaml:"clbit,omitempty"`
	Gate  *GateDecl     `json:"gate,omitempty" yaml:"gate,omitempty"`
	Apply *Apply        `json:"apply,omitempty" yaml:"apply,omitempty"`
}

// StatementKind names the populated field of a Statement.
type StatementKind string

const (
	KindQReg    StatementKind = "qreg"
	KindCReg    StatementKind = "creg"
	KindQubit   StatementKind = "qubit"
	KindClbit   StatementKind = "clbit"
	KindGate    StatementKind = "gate"
	KindApply   StatementKind = "apply"
	KindInvalid StatementKind = ""
)

// Kind returns which field is set, or KindInvalid if zero or several are.
func (s Statement) Kind() StatementKind {
	kind := KindInvalid
	n := 0
	if s.QReg != nil {
		kind, n = KindQReg, n+1
	}
	if s.CReg != nil {
		kind, n = KindCReg, n+1
	}
	if s.Qubit != nil {
		kind, n = KindQubit, n+1
	}
	if s.Clbit != nil {
		kind, n = KindClbit, n+1
	}
	if s.Gate != nil {
		kind, n = KindGate, n+1
	}
	if s.Apply != nil {
		kind, n = KindApply, n+1
	}
	if n != 1 {
		return KindInvalid
	}
	return kind
}

// RegisterDecl declares a named register of Size bits.
type RegisterDecl struct {
	Name string `json:"name" yaml:"name"`
	Size int    `json:"size" yaml:"size"`
}

// BitDecl declares a single loose bit.
type BitDecl struct {
	Name string `json:"name" yaml:"name"`
}

// GateDecl declares a custom operation.
//
// Constructor optionally names an attribute of the runtime library namespace
// to construct instances with. When empty, the runtime's generic gate type is
// used with Name bound in.
type GateDecl struct {
	Name        string `json:"name" yaml:"name"`
	Params      int    `json:"params" yaml:"params"`
	Qubits      int    `json:"qubits" yaml:"qubits"`
	Constructor string `json:"constructor,omitempty" yaml:"constructor,omitempty"`
}

// Apply applies a gate to operands. Operands are "reg[i]" or a loose bit name.
type Apply struct {
	Gate   string    `json:"gate" yaml:"gate"`
	Params []float64 `json:"params,omitempty" yaml:"params,omitempty"`
	Qubits []string  `json:"qubits" yaml:"qubits"`
	Clbits []string  `json:"clbits,omitempty" yaml:"clbits,omitempty"`
}

// Operand is a parsed bit reference.
type Operand struct {
	Name  string // register name, or loose bit name
	Index int    // -1 for loose bits
}

// IsLoose reports whether the operand names a loose bit.
func (o Operand) IsLoose() bool { return o.Index < 0 }

// String renders the operand in source form.
func (o Operand) String() string {
	if o.IsLoose() {
		return o.Name
	}
	return fmt.Sprintf("%s[%d]", o.Name, o.Index)
}

var (
	indexedOperand = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\[\s*(\d+)\s*\]$`)
	looseOperand   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ParseOperand parses "q[3]" or "anc".
func ParseOperand(s string) (Operand, error) {
	if m := indexedOperand.FindStringSubmatch(s); m != nil {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return Operand{}, fmt.Errorf("operand %q: %w", s, err)
		}
		return Operand{Name: m[1], Index: idx}, nil
	}
	if looseOperand.MatchString(s) {
		return Operand{Name: s, Index: -1}, nil
	}
	return Operand{}, fmt.Errorf("operand %q: expected name or name[index]", s)
}

// FormatParam renders a gate parameter as a decimal string.
// Parameters are carried as strings in canonical forms because floats are
// not allowed in canonical JSON.
func FormatParam(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToIR converts the program to an IRObject for canonical hashing.
func (p *Program) ToIR() IRObject {
	body := make(IRArray, 0, len(p.Body))
	for _, st := range p.Body {
		body = append(body, st.toIR())
	}
	return IRObject{
		"name": IRString(p.Name),
		"body": body,
	}
}

func (s Statement) toIR() IRObject {
	switch s.Kind() {
	case KindQReg:
		return IRObject{"qreg": registerDeclIR(s.QReg)}
	case KindCReg:
		return IRObject{"creg": registerDeclIR(s.CReg)}
	case KindQubit:
		return IRObject{"qubit": IRObject{"name": IRString(s.Qubit.Name)}}
	case KindClbit:
		return IRObject{"clbit": IRObject{"name": IRString(s.Clbit.Name)}}
	case KindGate:
		g := IRObject{
			"name":   IRString(s.Gate.Name),
			"params": IRInt(s.Gate.Params),
			"qubits": IRInt(s.Gate.Qubits),
		}
		if s.Gate.Constructor != "" {
			g["constructor"] = IRString(s.Gate.Constructor)
		}
		return IRObject{"gate": g}
	case KindApply:
		params := make(IRArray, len(s.Apply.Params))
		for i, p := range s.Apply.Params {
			params[i] = IRString(FormatParam(p))
		}
		return IRObject{"apply": IRObject{
			"gate":   IRString(s.Apply.Gate),
			"params": params,
			"qubits": stringsIR(s.Apply.Qubits),
			"clbits": stringsIR(s.Apply.Clbits),
		}}
	default:
		return IRObject{"invalid": IRBool(true)}
	}
}

func registerDeclIR(r *RegisterDecl) IRObject {
	return IRObject{"name": IRString(r.Name), "size": IRInt(r.Size)}
}

func stringsIR(ss []string) IRArray {
	arr := make(IRArray, len(ss))
	for i, s := range ss {
		arr[i] = IRString(s)
	}
	return arr
}
