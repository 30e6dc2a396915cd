package circuit

import (
	"github.com/roach88/qbridge/internal/runtime"
)

// Runtime method names called on the circuit object.
const (
	methodAddRegister = "add_register"
	methodAddBits     = "add_bits"
	methodAppend      = "_append"
)

// Builder assembles one runtime circuit by forwarding ordered mutations to it.
//
// Builder keeps no state of its own besides the circuit handle. It does not
// track which bits are registered: appending an instruction over bits that
// were never added is reported by the runtime, not here. A failed call leaves
// earlier successful mutations in place.
type Builder struct {
	qc runtime.Object
}

// AddQReg registers a quantum register with the circuit.
func (b *Builder) AddQReg(reg *QuantumRegister) error {
	return b.call(methodAddRegister, reg.Object())
}

// AddCReg registers a classical register with the circuit.
func (b *Builder) AddCReg(reg *ClassicalRegister) error {
	return b.call(methodAddRegister, reg.Object())
}

// AddQubit registers a single loose qubit with the circuit.
func (b *Builder) AddQubit(bit runtime.Object) error {
	return b.call(methodAddBits, runtime.Tuple{bit})
}

// AddClbit registers a single loose classical bit with the circuit.
func (b *Builder) AddClbit(bit runtime.Object) error {
	return b.call(methodAddBits, runtime.Tuple{bit})
}

// Append attaches an instruction built by Module.NewInstruction, unmodified.
func (b *Builder) Append(instruction runtime.Object) error {
	return b.call(methodAppend, instruction)
}

// Object returns the circuit under construction.
func (b *Builder) Object() runtime.Object {
	return b.qc
}

// Finish hands off the circuit. The builder should not be used afterwards.
func (b *Builder) Finish() runtime.Object {
	return b.qc
}

func (b *Builder) call(method string, arg runtime.Object) error {
	mc, ok := b.qc.(runtime.MethodCaller)
	if !ok {
		return runtime.Errorf(runtime.KindAttribute, "%s object has no method %q", runtime.TypeOf(b.qc), method)
	}
	_, err := mc.CallMethod(method, arg)
	return err
}
