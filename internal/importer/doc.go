// Package importer executes a program against the circuit facade.
//
// Statements run strictly in body order. Each one turns into facade calls:
//
//	qreg/creg   Module.NewQReg/NewCReg, then Builder.AddQReg/AddCReg
//	qubit/clbit Module.NewQubit/NewClbit, then Builder.AddQubit/AddClbit
//	gate        a circuit.Gate over a library constructor or the generic Gate type
//	apply       Gate.Construct, Module.NewInstruction, Builder.Append
//
// Standard gates (see ir.StandardGates) are resolved from the library
// namespace the first time a program uses them.
//
// The importer trusts the program to be valid (see compiler.ValidateProgram).
// An arity mismatch on apply therefore surfaces as the facade's
// INTERNAL_LOGIC error rather than a user-facing diagnostic.
//
// Builds get a UUIDv7 ID and a logical sequence number from Clock. Record
// turns a result plus the runtime's snapshot into archive rows, and
// RestoreGates rebuilds descriptors from them.
package importer
