package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/qbridge/internal/runtime"
)

// Call is one recorded boundary call.
type Call struct {
	// Target is the type name for constructor calls, or "QuantumCircuit"
	// for circuit method calls.
	Target string
	// Method is empty for constructor calls.
	Method string
	Args   []runtime.Object
}

// String renders the call as "Target(n args)" or "Target.method(n args)".
func (c Call) String() string {
	if c.Method == "" {
		return fmt.Sprintf("%s(%d)", c.Target, len(c.Args))
	}
	return fmt.Sprintf("%s.%s(%d)", c.Target, c.Method, len(c.Args))
}

// Recorder collects boundary calls in order.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of every recorded call.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Trace returns the String form of every recorded call.
func (r *Recorder) Trace() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// FakeRuntime is a runtime.Runtime whose objects do no validation and record
// every call made on them. Use it to assert exactly what crosses the boundary.
type FakeRuntime struct {
	rec     *Recorder
	modules map[string]*FakeModule
}

// NewFakeRuntime returns a runtime with a complete "qiskit.circuit" namespace.
func NewFakeRuntime() *FakeRuntime {
	f := &FakeRuntime{rec: &Recorder{}, modules: make(map[string]*FakeModule)}
	m := f.AddModule("qiskit.circuit")
	m.Set("QuantumCircuit", f.NewType("QuantumCircuit", func(args ...runtime.Object) (runtime.Object, error) {
		return &FakeCircuit{rec: f.rec, Fail: make(map[string]error)}, nil
	}))
	m.Set("QuantumRegister", f.NewType("QuantumRegister", f.newRegister("q")))
	m.Set("ClassicalRegister", f.NewType("ClassicalRegister", f.newRegister("c")))
	m.Set("Qubit", f.NewType("Qubit", newLooseBit("qubit")))
	m.Set("Clbit", f.NewType("Clbit", newLooseBit("clbit")))
	m.Set("CircuitInstruction", f.NewType("CircuitInstruction", func(args ...runtime.Object) (runtime.Object, error) {
		if len(args) != 3 {
			return nil, runtime.Errorf(runtime.KindType, "CircuitInstruction takes 3 arguments, got %d", len(args))
		}
		return &FakeInstruction{Operation: args[0], Qubits: args[1], Clbits: args[2]}, nil
	}))
	return f
}

// Recorder returns the call log shared by every object of this runtime.
func (f *FakeRuntime) Recorder() *Recorder { return f.rec }

// AddModule creates (or replaces) an empty namespace.
func (f *FakeRuntime) AddModule(name string) *FakeModule {
	m := &FakeModule{name: name, attrs: make(map[string]runtime.Object)}
	f.modules[name] = m
	return m
}

// Module returns an installed namespace, or nil.
func (f *FakeRuntime) Module(name string) *FakeModule { return f.modules[name] }

// Import implements runtime.Runtime.
func (f *FakeRuntime) Import(path string) (runtime.Module, error) {
	m, ok := f.modules[path]
	if !ok {
		return nil, runtime.Errorf(runtime.KindImport, "no module named %q", path)
	}
	return m, nil
}

// NewType creates a recording constructor.
func (f *FakeRuntime) NewType(name string, fn func(args ...runtime.Object) (runtime.Object, error)) *FakeType {
	return &FakeType{name: name, rec: f.rec, fn: fn}
}

func (f *FakeRuntime) newRegister(prefix string) func(args ...runtime.Object) (runtime.Object, error) {
	return func(args ...runtime.Object) (runtime.Object, error) {
		if len(args) != 2 {
			return nil, runtime.Errorf(runtime.KindType, "register takes (size, name), got %d arguments", len(args))
		}
		size, ok := args[0].(int)
		if !ok {
			return nil, runtime.Errorf(runtime.KindType, "size must be int, got %T", args[0])
		}
		name, _ := args[1].(string)
		bits := &FakeList{}
		reg := &FakeRegister{Name: name, Bits: bits}
		for i := 0; i < size; i++ {
			bits.Items = append(bits.Items, &FakeBit{Label: fmt.Sprintf("%s[%d]", name, i)})
		}
		return reg, nil
	}
}

func newLooseBit(label string) func(args ...runtime.Object) (runtime.Object, error) {
	return func(args ...runtime.Object) (runtime.Object, error) {
		return &FakeBit{Label: label}, nil
	}
}

// FakeModule is a namespace of FakeRuntime.
type FakeModule struct {
	name  string
	attrs map[string]runtime.Object
}

// Name implements runtime.Module.
func (m *FakeModule) Name() string { return m.name }

// Set binds an attribute.
func (m *FakeModule) Set(name string, obj runtime.Object) { m.attrs[name] = obj }

// Delete removes an attribute.
func (m *FakeModule) Delete(name string) { delete(m.attrs, name) }

// Attr implements runtime.AttrGetter.
func (m *FakeModule) Attr(name string) (runtime.Object, error) {
	obj, ok := m.attrs[name]
	if !ok {
		return nil, runtime.Errorf(runtime.KindAttribute, "module %q has no attribute %q", m.name, name)
	}
	return obj, nil
}

// FakeType is a recording constructor.
type FakeType struct {
	name string
	rec  *Recorder
	fn   func(args ...runtime.Object) (runtime.Object, error)
}

// Call implements runtime.Callable.
func (t *FakeType) Call(args ...runtime.Object) (runtime.Object, error) {
	t.rec.record(Call{Target: t.name, Args: append([]runtime.Object(nil), args...)})
	return t.fn(args...)
}

// TypeName implements runtime.Type.
func (t *FakeType) TypeName() string { return t.name }

// QualName implements runtime.Named.
func (t *FakeType) QualName() string { return "fake." + t.name }

// FakeBit is an opaque bit handle.
type FakeBit struct {
	Label string
}

// FakeList is a runtime.List over a plain slice.
type FakeList struct {
	Items []runtime.Object
}

// Len implements runtime.List.
func (l *FakeList) Len() int { return len(l.Items) }

// Item implements runtime.List.
func (l *FakeList) Item(i int) (runtime.Object, error) {
	if i < 0 || i >= len(l.Items) {
		return nil, runtime.Errorf(runtime.KindIndex, "list index %d out of range", i)
	}
	return l.Items[i], nil
}

// FakeRegister exposes its bits through "_bits".
type FakeRegister struct {
	Name string
	Bits runtime.Object
}

// Attr implements runtime.AttrGetter.
func (r *FakeRegister) Attr(name string) (runtime.Object, error) {
	if name == "_bits" {
		return r.Bits, nil
	}
	return nil, runtime.Errorf(runtime.KindAttribute, "register has no attribute %q", name)
}

// FakeInstruction holds the constructor arguments verbatim.
type FakeInstruction struct {
	Operation runtime.Object
	Qubits    runtime.Object
	Clbits    runtime.Object
}

// FakeCircuit records method calls and accepts everything unless Fail names
// the method.
type FakeCircuit struct {
	rec *Recorder

	Registers    []runtime.Object
	Bits         []runtime.Object
	Instructions []runtime.Object

	// Fail maps a method name to the error it returns.
	Fail map[string]error
}

// CallMethod implements runtime.MethodCaller.
func (c *FakeCircuit) CallMethod(name string, args ...runtime.Object) (runtime.Object, error) {
	c.rec.record(Call{Target: "QuantumCircuit", Method: name, Args: append([]runtime.Object(nil), args...)})
	if err := c.Fail[name]; err != nil {
		return nil, err
	}
	switch name {
	case "add_register":
		c.Registers = append(c.Registers, args...)
	case "add_bits":
		if t, ok := args[0].(runtime.Tuple); ok {
			c.Bits = append(c.Bits, t...)
		}
	case "_append":
		c.Instructions = append(c.Instructions, args...)
	default:
		return nil, runtime.Errorf(runtime.KindAttribute, "QuantumCircuit has no method %q", name)
	}
	return nil, nil
}
