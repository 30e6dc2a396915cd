// Package memrt is an in-process reference runtime for qbridge.
//
// It implements the runtime boundary with plain Go objects: the
// qiskit.circuit namespace (QuantumCircuit, QuantumRegister, Qubit,
// ClassicalRegister, Clbit, CircuitInstruction, Gate) and the
// qiskit.circuit.library namespace of standard gates. Object identity is
// pointer identity, so handles can be compared with ==.
//
// Interp serializes call sequences through WithLock. Individual objects are
// not safe for concurrent use outside of it.
package memrt

import (
	"strings"
	"sync"

	"github.com/roach88/qbridge/internal/runtime"
)

// Namespaces installed by New.
const (
	CircuitNamespace = "qiskit.circuit"
	LibraryNamespace = "qiskit.circuit.library"
)

// Interp is the reference runtime.
type Interp struct {
	lock    sync.Mutex
	modules map[string]*Module
}

// New creates a runtime with the circuit and library namespaces installed.
func New() *Interp {
	in := &Interp{modules: make(map[string]*Module)}
	in.Install(newCircuitModule())
	in.Install(newLibraryModule())
	return in
}

// Install adds or replaces a namespace.
func (in *Interp) Install(m *Module) {
	in.modules[m.name] = m
}

// Import implements runtime.Runtime.
func (in *Interp) Import(path string) (runtime.Module, error) {
	m, ok := in.modules[path]
	if !ok {
		return nil, runtime.Errorf(runtime.KindImport, "no module named %q", path)
	}
	return m, nil
}

// Resolve looks up a qualified name such as "qiskit.circuit.library.RGate".
func (in *Interp) Resolve(qualName string) (runtime.Object, error) {
	dot := strings.LastIndex(qualName, ".")
	if dot <= 0 || dot == len(qualName)-1 {
		return nil, runtime.Errorf(runtime.KindImport, "not a qualified name: %q", qualName)
	}
	m, err := in.Import(qualName[:dot])
	if err != nil {
		return nil, err
	}
	return m.Attr(qualName[dot+1:])
}

// WithLock implements runtime.Locker. Only one call sequence runs at a time.
func (in *Interp) WithLock(fn func() error) error {
	in.lock.Lock()
	defer in.lock.Unlock()
	return fn()
}

// Module is a runtime namespace.
type Module struct {
	name  string
	attrs map[string]runtime.Object
}

// NewModule creates an empty namespace.
func NewModule(name string) *Module {
	return &Module{name: name, attrs: make(map[string]runtime.Object)}
}

// Name implements runtime.Module.
func (m *Module) Name() string { return m.name }

// Set binds an attribute. Types created with NewType are qualified under this module.
func (m *Module) Set(name string, obj runtime.Object) {
	if t, ok := obj.(*Type); ok && t.module == "" {
		t.module = m.name
	}
	m.attrs[name] = obj
}

// Delete removes an attribute.
func (m *Module) Delete(name string) {
	delete(m.attrs, name)
}

// Attr implements runtime.AttrGetter.
func (m *Module) Attr(name string) (runtime.Object, error) {
	obj, ok := m.attrs[name]
	if !ok {
		return nil, runtime.Errorf(runtime.KindAttribute, "module %q has no attribute %q", m.name, name)
	}
	return obj, nil
}

// Type is a runtime type constructor.
type Type struct {
	module    string
	name      string
	construct func(args ...runtime.Object) (runtime.Object, error)
}

// NewType creates a constructor. The module is filled in by Module.Set.
func NewType(name string, construct func(args ...runtime.Object) (runtime.Object, error)) *Type {
	return &Type{name: name, construct: construct}
}

// Call implements runtime.Callable.
func (t *Type) Call(args ...runtime.Object) (runtime.Object, error) {
	return t.construct(args...)
}

// TypeName implements runtime.Type.
func (t *Type) TypeName() string { return t.name }

// QualName implements runtime.Named.
func (t *Type) QualName() string {
	if t.module == "" {
		return t.name
	}
	return t.module + "." + t.name
}

// List is a runtime-owned sequence.
type List struct {
	items []runtime.Object
}

// Len implements runtime.List.
func (l *List) Len() int { return len(l.items) }

// Item implements runtime.List.
func (l *List) Item(index int) (runtime.Object, error) {
	if index < 0 || index >= len(l.items) {
		return nil, runtime.Errorf(runtime.KindIndex, "list index %d out of range", index)
	}
	return l.items[index], nil
}

// Append grows the list. The reference runtime never does this for register
// bit lists; it exists so callers can exercise stale snapshots.
func (l *List) Append(obj runtime.Object) {
	l.items = append(l.items, obj)
}
