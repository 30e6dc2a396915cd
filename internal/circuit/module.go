package circuit

import (
	"github.com/roach88/qbridge/internal/runtime"
)

// DefaultNamespace is the runtime namespace the core constructors live in.
const DefaultNamespace = "qiskit.circuit"

// Names of the constructors resolved from the namespace.
const (
	BindingCircuit     = "QuantumCircuit"
	BindingQReg        = "QuantumRegister"
	BindingQubit       = "Qubit"
	BindingCReg        = "ClassicalRegister"
	BindingClbit       = "Clbit"
	BindingInstruction = "CircuitInstruction"
)

// bitsAttr is the register attribute holding its runtime-side bit list.
const bitsAttr = "_bits"

// Module is the resolved set of runtime constructors. It is the explicit
// context object threaded through every factory call.
//
// A Module is only ever returned fully resolved; there is no partially valid
// state. It holds no mutable state after Import returns.
type Module struct {
	namespace   string
	circuit     runtime.Type
	qreg        runtime.Type
	qubit       runtime.Type
	creg        runtime.Type
	clbit       runtime.Type
	instruction runtime.Type
}

// Import resolves the core constructors from DefaultNamespace.
func Import(rt runtime.Runtime) (*Module, error) {
	return ImportFrom(rt, DefaultNamespace)
}

// ImportFrom resolves the core constructors from the given namespace.
//
// Resolution is all-or-nothing: the first missing or wrong-kind binding fails
// the whole import with an ImporterError naming it.
func ImportFrom(rt runtime.Runtime, namespace string) (*Module, error) {
	ns, err := rt.Import(namespace)
	if err != nil {
		return nil, &ImporterError{
			Code:      ErrCodeBindingMissing,
			Message:   "cannot import runtime namespace",
			Namespace: namespace,
			Err:       err,
		}
	}

	r := resolver{ns: ns, namespace: namespace}
	m := &Module{
		namespace:   namespace,
		circuit:     r.lookup(BindingCircuit),
		qreg:        r.lookup(BindingQReg),
		qubit:       r.lookup(BindingQubit),
		creg:        r.lookup(BindingCReg),
		clbit:       r.lookup(BindingClbit),
		instruction: r.lookup(BindingInstruction),
	}
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

// resolver looks up types and keeps the first failure.
type resolver struct {
	ns        runtime.Module
	namespace string
	err       error
}

func (r *resolver) lookup(name string) runtime.Type {
	if r.err != nil {
		return nil
	}
	obj, err := r.ns.Attr(name)
	if err != nil {
		r.err = &ImporterError{
			Code:      ErrCodeBindingMissing,
			Message:   "constructor not found",
			Binding:   name,
			Namespace: r.namespace,
			Err:       err,
		}
		return nil
	}
	t, ok := obj.(runtime.Type)
	if !ok {
		r.err = &ImporterError{
			Code:      ErrCodeBindingKind,
			Message:   "constructor is not a type (got " + runtime.TypeOf(obj) + ")",
			Binding:   name,
			Namespace: r.namespace,
		}
		return nil
	}
	return t
}

// Namespace returns the namespace the bindings were resolved from.
func (m *Module) Namespace() string {
	return m.namespace
}

// NewCircuit instantiates an empty circuit.
func (m *Module) NewCircuit() (*Builder, error) {
	qc, err := m.circuit.Call()
	if err != nil {
		return nil, err
	}
	return &Builder{qc: qc}, nil
}

// NewQReg constructs a quantum register and snapshots its bits.
func (m *Module) NewQReg(name string, size int) (*QuantumRegister, error) {
	reg, err := m.newRegister(m.qreg, name, size)
	if err != nil {
		return nil, err
	}
	return &QuantumRegister{register: reg}, nil
}

// NewQubit constructs one loose qubit not bound to any register.
func (m *Module) NewQubit() (runtime.Object, error) {
	return m.qubit.Call()
}

// NewCReg constructs a classical register and snapshots its bits.
func (m *Module) NewCReg(name string, size int) (*ClassicalRegister, error) {
	reg, err := m.newRegister(m.creg, name, size)
	if err != nil {
		return nil, err
	}
	return &ClassicalRegister{register: reg}, nil
}

// NewClbit constructs one loose classical bit.
func (m *Module) NewClbit() (runtime.Object, error) {
	return m.clbit.Call()
}

// NewInstruction pairs an operation with its ordered qubit and clbit operands.
// The operand slices are copied into fresh tuples.
func (m *Module) NewInstruction(operation runtime.Object, qubits, clbits []runtime.Object) (runtime.Object, error) {
	return m.instruction.Call(operation, toTuple(qubits), toTuple(clbits))
}

func (m *Module) newRegister(t runtime.Type, name string, size int) (register, error) {
	obj, err := t.Call(size, name)
	if err != nil {
		return register{}, err
	}
	getter, ok := obj.(runtime.AttrGetter)
	if !ok {
		return register{}, &ImporterError{
			Code:    ErrCodeBitSnapshot,
			Message: "register " + name + " has no attributes (got " + runtime.TypeOf(obj) + ")",
		}
	}
	raw, err := getter.Attr(bitsAttr)
	if err != nil {
		return register{}, err
	}
	list, ok := raw.(runtime.List)
	if !ok {
		return register{}, &ImporterError{
			Code:    ErrCodeBitSnapshot,
			Message: "register " + name + " bit list is not a list (got " + runtime.TypeOf(raw) + ")",
		}
	}
	bits, err := snapshotBits(list)
	if err != nil {
		return register{}, err
	}
	if len(bits) != size {
		return register{}, &ImporterError{
			Code:    ErrCodeBitSnapshot,
			Message: registerSizeMismatch(name, size, len(bits)),
		}
	}
	return register{object: obj, bits: bits}, nil
}

func toTuple(objs []runtime.Object) runtime.Tuple {
	t := make(runtime.Tuple, len(objs))
	copy(t, objs)
	return t
}
