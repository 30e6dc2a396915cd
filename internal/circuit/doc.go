// Package circuit is the construction facade between a parsed program and a
// runtime-owned circuit object.
//
// The facade has four parts:
//
//   - Module: resolves the six core constructors (circuit, quantum register,
//     qubit, classical register, clbit, instruction) from a runtime namespace
//     exactly once and exposes typed factories on top of them.
//   - QuantumRegister / ClassicalRegister: a runtime register plus a
//     fixed-length snapshot of its bits for O(1) indexed access.
//   - Gate: an immutable descriptor of a declared operation with an
//     arity-checked Construct.
//   - Builder: a thin proxy that forwards add/append calls to the circuit.
//
// Typical use, in program order:
//
//	mod, err := circuit.Import(rt)
//	b, _ := mod.NewCircuit()
//	q, _ := mod.NewQReg("q", 2)
//	_ = b.AddQReg(q)
//	op, _ := gate.Construct(3.14)
//	q0, _ := q.Bit(0)
//	q1, _ := q.Bit(1)
//	inst, _ := mod.NewInstruction(op, []runtime.Object{q0, q1}, nil)
//	_ = b.Append(inst)
//	qc := b.Finish()
//
// Runtime rejections are returned unchanged. Facade failures are
// *ImporterError values; see IsBindingError, IsInternalError and IsIndexError.
//
// Nothing here is safe for concurrent use. One import runs as one linear
// sequence of runtime calls.
package circuit
