// Package harness provides conformance testing for qbridge programs.
//
// A scenario names a program, optionally tampers with the reference runtime,
// and states what the finished circuit (or the failure) must look like. Run
// executes the scenario end to end: validation, import through the circuit
// facade, snapshot, archive round trip, and gate restoration.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: bell_pair
//	description: "H then CX on a two-qubit register"
//	program:                      # inline program, or program_file
//	  name: bell
//	  body:
//	    - qreg: { name: q, size: 2 }
//	    - apply: { gate: h, qubits: ["q[0]"] }
//	program_file: ../programs/bell.cue
//	skip_validation: false        # run the importer even on invalid programs
//	runtime:
//	  remove: [qiskit.circuit.Clbit]    # delete a binding
//	  shadow: [qiskit.circuit.Qubit]    # replace a binding with a non-type
//	expect:
//	  error_code: BINDING_MISSING
//	  error_statement: 2
//	  qregs: [{ name: q, size: 2 }]
//	  cregs: []
//	  qubits: ["q[0]", "q[1]"]
//	  clbits: []
//	  instructions:
//	    - { name: h, params: [], qubits: [0], clbits: [] }
//
// Every expect field is optional; an omitted field is not checked. A scenario
// without error_code expects the build to succeed.
//
// # Golden Files
//
// Golden renders a result as canonical JSON (program hash, snapshot, snapshot
// hash, gate records, error). RunWithGolden compares it against
// testdata/golden/{name}.golden with goldie. Regenerate with:
//
//	go test ./internal/harness -update
package harness
