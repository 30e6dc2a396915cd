package memrt

import (
	"github.com/roach88/qbridge/internal/runtime"
)

// Circuit is a mutable quantum circuit.
type Circuit struct {
	qregs    []*Register
	cregs    []*Register
	qubits   []*Bit
	clbits   []*Bit
	bitIndex map[*Bit]int
	data     []*Instruction
	calls    int
}

func newCircuit(args ...runtime.Object) (runtime.Object, error) {
	if len(args) != 0 {
		return nil, runtime.Errorf(runtime.KindType, "QuantumCircuit() takes no arguments in this runtime, got %d", len(args))
	}
	return &Circuit{bitIndex: make(map[*Bit]int)}, nil
}

// QRegs returns the quantum registers in insertion order.
func (c *Circuit) QRegs() []*Register { return append([]*Register(nil), c.qregs...) }

// CRegs returns the classical registers in insertion order.
func (c *Circuit) CRegs() []*Register { return append([]*Register(nil), c.cregs...) }

// Qubits returns every qubit in circuit order.
func (c *Circuit) Qubits() []*Bit { return append([]*Bit(nil), c.qubits...) }

// Clbits returns every classical bit in circuit order.
func (c *Circuit) Clbits() []*Bit { return append([]*Bit(nil), c.clbits...) }

// Data returns the instructions in append order.
func (c *Circuit) Data() []*Instruction { return append([]*Instruction(nil), c.data...) }

// Calls returns how many mutating method calls succeeded.
func (c *Circuit) Calls() int { return c.calls }

// Attr implements runtime.AttrGetter.
func (c *Circuit) Attr(name string) (runtime.Object, error) {
	switch name {
	case "num_qubits":
		return len(c.qubits), nil
	case "num_clbits":
		return len(c.clbits), nil
	case "data":
		items := make([]runtime.Object, len(c.data))
		for i, inst := range c.data {
			items[i] = inst
		}
		return &List{items: items}, nil
	}
	return nil, runtime.Errorf(runtime.KindAttribute, "QuantumCircuit has no attribute %q", name)
}

// CallMethod implements runtime.MethodCaller.
func (c *Circuit) CallMethod(name string, args ...runtime.Object) (runtime.Object, error) {
	var err error
	switch name {
	case "add_register":
		err = c.addRegister(args)
	case "add_bits":
		err = c.addBits(args)
	case "_append":
		err = c.appendInstruction(args)
	default:
		return nil, runtime.Errorf(runtime.KindAttribute, "QuantumCircuit has no method %q", name)
	}
	if err != nil {
		return nil, err
	}
	c.calls++
	return nil, nil
}

func (c *Circuit) addRegister(args []runtime.Object) error {
	if len(args) != 1 {
		return runtime.Errorf(runtime.KindType, "add_register() takes 1 argument, got %d", len(args))
	}
	reg, ok := args[0].(*Register)
	if !ok {
		return runtime.Errorf(runtime.KindType, "expected a register, got %T", args[0])
	}
	regs := &c.qregs
	if reg.kind == ClassicalKind {
		regs = &c.cregs
	}
	for _, existing := range *regs {
		if existing.name == reg.name {
			return runtime.Errorf(runtime.KindCircuit, "register name %q already exists", reg.name)
		}
	}
	*regs = append(*regs, reg)
	for _, item := range reg.bits.items {
		b := item.(*Bit)
		if _, present := c.bitIndex[b]; !present {
			c.insertBit(b)
		}
	}
	return nil
}

func (c *Circuit) addBits(args []runtime.Object) error {
	if len(args) != 1 {
		return runtime.Errorf(runtime.KindType, "add_bits() takes 1 argument, got %d", len(args))
	}
	bits, ok := args[0].(runtime.Tuple)
	if !ok {
		return runtime.Errorf(runtime.KindType, "add_bits() expects a tuple of bits, got %T", args[0])
	}
	// Check everything first so a rejected call adds nothing.
	seen := make(map[*Bit]bool, len(bits))
	for _, item := range bits {
		b, ok := item.(*Bit)
		if !ok {
			return runtime.Errorf(runtime.KindType, "expected a bit, got %T", item)
		}
		if _, present := c.bitIndex[b]; present || seen[b] {
			return runtime.Errorf(runtime.KindCircuit, "bit %v is already in the circuit", b)
		}
		seen[b] = true
	}
	for _, item := range bits {
		c.insertBit(item.(*Bit))
	}
	return nil
}

func (c *Circuit) insertBit(b *Bit) {
	if b.kind == QuantumKind {
		c.bitIndex[b] = len(c.qubits)
		c.qubits = append(c.qubits, b)
		return
	}
	c.bitIndex[b] = len(c.clbits)
	c.clbits = append(c.clbits, b)
}

func (c *Circuit) appendInstruction(args []runtime.Object) error {
	if len(args) != 1 {
		return runtime.Errorf(runtime.KindType, "_append() takes 1 argument, got %d", len(args))
	}
	inst, ok := args[0].(*Instruction)
	if !ok {
		return runtime.Errorf(runtime.KindType, "expected a CircuitInstruction, got %T", args[0])
	}
	op := inst.Operation
	if len(inst.Qubits) != op.numQubits || len(inst.Clbits) != op.numClbits {
		return runtime.Errorf(runtime.KindCircuit, "%s acts on %d qubits and %d clbits, got %d and %d",
			op.name, op.numQubits, op.numClbits, len(inst.Qubits), len(inst.Clbits))
	}
	for _, operands := range []runtime.Tuple{inst.Qubits, inst.Clbits} {
		for _, item := range operands {
			b := item.(*Bit)
			if _, present := c.bitIndex[b]; !present {
				return runtime.Errorf(runtime.KindCircuit, "bit %v not in circuit", b)
			}
		}
	}
	c.data = append(c.data, inst)
	return nil
}

func newCircuitModule() *Module {
	m := NewModule(CircuitNamespace)
	m.Set("QuantumCircuit", NewType("QuantumCircuit", newCircuit))
	m.Set("QuantumRegister", NewType("QuantumRegister", func(args ...runtime.Object) (runtime.Object, error) {
		return newRegister(QuantumKind, args)
	}))
	m.Set("ClassicalRegister", NewType("ClassicalRegister", func(args ...runtime.Object) (runtime.Object, error) {
		return newRegister(ClassicalKind, args)
	}))
	m.Set("Qubit", NewType("Qubit", func(args ...runtime.Object) (runtime.Object, error) {
		return newLooseBit(QuantumKind, args)
	}))
	m.Set("Clbit", NewType("Clbit", func(args ...runtime.Object) (runtime.Object, error) {
		return newLooseBit(ClassicalKind, args)
	}))
	m.Set("CircuitInstruction", NewType("CircuitInstruction", func(args ...runtime.Object) (runtime.Object, error) {
		return newInstruction(args)
	}))
	m.Set("Gate", NewType("Gate", newGenericGate))
	return m
}

func newLooseBit(kind BitKind, args []runtime.Object) (runtime.Object, error) {
	if len(args) != 0 {
		return nil, runtime.Errorf(runtime.KindType, "%s() takes no arguments, got %d", kind, len(args))
	}
	return &Bit{kind: kind, index: -1}, nil
}
