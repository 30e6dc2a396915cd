package memrt

import (
	"fmt"
	"regexp"

	"github.com/roach88/qbridge/internal/runtime"
)

// BitKind distinguishes qubits from classical bits.
type BitKind int

const (
	QuantumKind BitKind = iota
	ClassicalKind
)

func (k BitKind) String() string {
	if k == QuantumKind {
		return "Qubit"
	}
	return "Clbit"
}

// Bit is a single qubit or classical bit.
type Bit struct {
	kind     BitKind
	register *Register
	index    int
}

// Kind returns the bit's kind.
func (b *Bit) Kind() BitKind { return b.kind }

// Register returns the owning register, or nil for loose bits.
func (b *Bit) Register() *Register { return b.register }

// Index returns the bit's position in its register, or -1 for loose bits.
func (b *Bit) Index() int {
	if b.register == nil {
		return -1
	}
	return b.index
}

// Attr implements runtime.AttrGetter.
func (b *Bit) Attr(name string) (runtime.Object, error) {
	switch name {
	case "_register":
		if b.register == nil {
			return nil, nil
		}
		return b.register, nil
	case "_index":
		return b.Index(), nil
	}
	return nil, runtime.Errorf(runtime.KindAttribute, "%s has no attribute %q", b.kind, name)
}

func (b *Bit) String() string {
	if b.register == nil {
		return fmt.Sprintf("%s()", b.kind)
	}
	return fmt.Sprintf("%s(%s, %d)", b.kind, b.register.name, b.index)
}

// Register is a named, fixed-size collection of bits.
type Register struct {
	kind BitKind
	name string
	bits *List
}

var registerName = regexp.MustCompile(`^[a-z][a-zA-Z0-9_]*$`)

func newRegister(kind BitKind, args []runtime.Object) (runtime.Object, error) {
	typeName := "QuantumRegister"
	if kind == ClassicalKind {
		typeName = "ClassicalRegister"
	}
	if len(args) != 2 {
		return nil, runtime.Errorf(runtime.KindType, "%s() takes (size, name), got %d arguments", typeName, len(args))
	}
	size, ok := asInt(args[0])
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "register size must be an integer, got %T", args[0])
	}
	if size < 0 {
		return nil, runtime.Errorf(runtime.KindCircuit, "register size must be non-negative, got %d", size)
	}
	name, ok := args[1].(string)
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "register name must be a string, got %T", args[1])
	}
	if !registerName.MatchString(name) {
		return nil, runtime.Errorf(runtime.KindCircuit, "%q is an invalid register name", name)
	}
	reg := &Register{kind: kind, name: name, bits: &List{items: make([]runtime.Object, size)}}
	for i := 0; i < size; i++ {
		reg.bits.items[i] = &Bit{kind: kind, register: reg, index: i}
	}
	return reg, nil
}

// Kind returns the register's bit kind.
func (r *Register) Kind() BitKind { return r.kind }

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Size returns the current number of bits.
func (r *Register) Size() int { return r.bits.Len() }

// BitList exposes the runtime-side list backing the register.
func (r *Register) BitList() *List { return r.bits }

// Attr implements runtime.AttrGetter.
func (r *Register) Attr(name string) (runtime.Object, error) {
	switch name {
	case "_bits":
		return r.bits, nil
	case "name":
		return r.name, nil
	case "size":
		return r.bits.Len(), nil
	}
	return nil, runtime.Errorf(runtime.KindAttribute, "register has no attribute %q", name)
}

// Instruction binds an operation to ordered operands.
type Instruction struct {
	Operation *Operation
	Qubits    runtime.Tuple
	Clbits    runtime.Tuple
}

func newInstruction(args []runtime.Object) (runtime.Object, error) {
	if len(args) != 3 {
		return nil, runtime.Errorf(runtime.KindType, "CircuitInstruction() takes (operation, qubits, clbits), got %d arguments", len(args))
	}
	op, ok := args[0].(*Operation)
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "operation must be an Operation, got %T", args[0])
	}
	qubits, err := bitTuple(args[1], QuantumKind)
	if err != nil {
		return nil, err
	}
	clbits, err := bitTuple(args[2], ClassicalKind)
	if err != nil {
		return nil, err
	}
	return &Instruction{Operation: op, Qubits: qubits, Clbits: clbits}, nil
}

func bitTuple(obj runtime.Object, kind BitKind) (runtime.Tuple, error) {
	t, ok := obj.(runtime.Tuple)
	if !ok {
		return nil, runtime.Errorf(runtime.KindType, "%s operands must be a tuple, got %T", kind, obj)
	}
	for i, item := range t {
		b, ok := item.(*Bit)
		if !ok || b.kind != kind {
			return nil, runtime.Errorf(runtime.KindType, "operand %d is not a %s (got %v)", i, kind, item)
		}
	}
	out := make(runtime.Tuple, len(t))
	copy(out, t)
	return out, nil
}

// Attr implements runtime.AttrGetter.
func (inst *Instruction) Attr(name string) (runtime.Object, error) {
	switch name {
	case "operation":
		return inst.Operation, nil
	case "qubits":
		return inst.Qubits, nil
	case "clbits":
		return inst.Clbits, nil
	}
	return nil, runtime.Errorf(runtime.KindAttribute, "CircuitInstruction has no attribute %q", name)
}

func asInt(obj runtime.Object) (int, bool) {
	switch v := obj.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	}
	return 0, false
}
