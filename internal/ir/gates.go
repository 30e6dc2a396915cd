package ir

// GateSig describes a standard gate: its program name, the attribute of the
// runtime library namespace that constructs it, and its arities.
type GateSig struct {
	Name        string
	Constructor string
	Params      int
	Qubits      int
	Clbits      int
}

// StandardGates is the built-in gate table. Programs may use these names
// without declaring them, and may not redeclare them.
var StandardGates = []GateSig{
	{Name: "h", Constructor: "HGate", Qubits: 1},
	{Name: "ch", Constructor: "CHGate", Qubits: 2},
	{Name: "r", Constructor: "RGate", Params: 2, Qubits: 1},
	{Name: "cx", Constructor: "CXGate", Qubits: 2},
	{Name: "rz", Constructor: "RZGate", Params: 1, Qubits: 1},
	{Name: "measure", Constructor: "Measure", Qubits: 1, Clbits: 1},
}

// LookupStandardGate returns the standard gate with the given name.
func LookupStandardGate(name string) (GateSig, bool) {
	for _, g := range StandardGates {
		if g.Name == name {
			return g, true
		}
	}
	return GateSig{}, false
}
