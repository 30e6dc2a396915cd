package ir

// CircuitSnapshot is a read-only picture of a finished runtime circuit.
// Bits are listed in circuit order; instructions refer to them by position.
type CircuitSnapshot struct {
	QRegs        []RegisterSnapshot    `json:"qregs"`
	CRegs        []RegisterSnapshot    `json:"cregs"`
	Qubits       []string              `json:"qubits"`
	Clbits       []string              `json:"clbits"`
	Instructions []InstructionSnapshot `json:"instructions"`
}

// RegisterSnapshot describes one register of a circuit.
type RegisterSnapshot struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// InstructionSnapshot describes one instruction of a circuit.
// Params are decimal strings (see FormatParam).
type InstructionSnapshot struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Qubits []int64  `json:"qubits"`
	Clbits []int64  `json:"clbits"`
}

// ToIR converts the snapshot to an IRObject for canonical serialization.
func (s *CircuitSnapshot) ToIR() IRObject {
	insts := make(IRArray, len(s.Instructions))
	for i, inst := range s.Instructions {
		insts[i] = IRObject{
			"name":   IRString(inst.Name),
			"params": stringsIR(inst.Params),
			"qubits": intsIR(inst.Qubits),
			"clbits": intsIR(inst.Clbits),
		}
	}
	return IRObject{
		"qregs":        registersIR(s.QRegs),
		"cregs":        registersIR(s.CRegs),
		"qubits":       stringsIR(s.Qubits),
		"clbits":       stringsIR(s.Clbits),
		"instructions": insts,
	}
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *CircuitSnapshot) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(s.ToIR())
}

func registersIR(regs []RegisterSnapshot) IRArray {
	arr := make(IRArray, len(regs))
	for i, r := range regs {
		arr[i] = IRObject{"name": IRString(r.Name), "size": IRInt(r.Size)}
	}
	return arr
}

func intsIR(ns []int64) IRArray {
	arr := make(IRArray, len(ns))
	for i, n := range ns {
		arr[i] = IRInt(n)
	}
	return arr
}

// BuildRecord is the stored form of one completed import.
type BuildRecord struct {
	ID           string `json:"id"`
	ProgramName  string `json:"program_name"`
	ProgramHash  string `json:"program_hash"`
	SnapshotHash string `json:"snapshot_hash"`
	Snapshot     string `json:"snapshot"` // canonical JSON
	Seq          int64  `json:"seq"`      // logical position in the archive
	IRVersion    string `json:"ir_version"`
}

// GateRecord is the stored reduction of one gate descriptor.
// Constructor is the qualified name of the runtime constructor.
type GateRecord struct {
	BuildID     string `json:"build_id"`
	Position    int64  `json:"position"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	NumParams   int64  `json:"num_params"`
	NumQubits   int64  `json:"num_qubits"`
	Constructor string `json:"constructor"`
	Bound       string `json:"bound,omitempty"` // name bound into a generic constructor
}
