package circuit

import (
	"fmt"

	"github.com/roach88/qbridge/internal/runtime"
)

// GateTypeName is the type tag carried by a gate Reduction.
const GateTypeName = "CustomGate"

// Gate describes a declared operation: how to construct it and its fixed
// parameter and qubit arities. Gates are immutable once created.
type Gate struct {
	constructor runtime.Callable
	name        string
	numParams   int
	numQubits   int
}

// NewGate creates a gate descriptor.
func NewGate(constructor runtime.Callable, name string, numParams, numQubits int) *Gate {
	return &Gate{
		constructor: constructor,
		name:        name,
		numParams:   numParams,
		numQubits:   numQubits,
	}
}

// Construct calls the constructor with args in order and returns the runtime
// operation. Callers are expected to have checked the argument count already;
// a mismatch is reported as an internal logic error and the constructor is
// not called.
func (g *Gate) Construct(args ...runtime.Object) (runtime.Object, error) {
	if len(args) != g.numParams {
		return nil, &ImporterError{
			Code: ErrCodeInternalLogic,
			Message: fmt.Sprintf("internal logic error: wrong number of params for %s (got %d, expected %d)",
				g.name, len(args), g.numParams),
		}
	}
	return g.constructor.Call(args...)
}

// Name returns the gate's display name.
func (g *Gate) Name() string { return g.name }

// NumParams returns the number of parameters Construct expects.
func (g *Gate) NumParams() int { return g.numParams }

// NumQubits returns the number of qubits the constructed operation acts on.
func (g *Gate) NumQubits() int { return g.numQubits }

// Constructor returns the stored constructor handle.
func (g *Gate) Constructor() runtime.Callable { return g.constructor }

// String renders the gate as CustomGate(name="rzz", num_params=1, num_qubits=2).
func (g *Gate) String() string {
	return fmt.Sprintf("%s(name=%q, num_params=%d, num_qubits=%d)",
		GateTypeName, g.name, g.numParams, g.numQubits)
}

// GateArgs is the decomposed state of a Gate.
type GateArgs struct {
	Constructor runtime.Callable
	Name        string
	NumParams   int
	NumQubits   int
}

// Reduction is the (type, args) pair a Gate decomposes into. Rebuilding from
// it yields an equivalent Gate.
type Reduction struct {
	Type string
	Args GateArgs
}

// Reduce decomposes the gate.
func (g *Gate) Reduce() Reduction {
	return Reduction{
		Type: GateTypeName,
		Args: GateArgs{
			Constructor: g.constructor,
			Name:        g.name,
			NumParams:   g.numParams,
			NumQubits:   g.numQubits,
		},
	}
}

// RebuildGate reconstructs a Gate from its Reduction.
func RebuildGate(r Reduction) (*Gate, error) {
	if r.Type != GateTypeName {
		return nil, fmt.Errorf("rebuild gate: unexpected type %q (want %q)", r.Type, GateTypeName)
	}
	if r.Args.Constructor == nil {
		return nil, fmt.Errorf("rebuild gate %s: constructor is required", r.Args.Name)
	}
	if r.Args.NumParams < 0 || r.Args.NumQubits < 0 {
		return nil, fmt.Errorf("rebuild gate %s: negative arity (params=%d, qubits=%d)",
			r.Args.Name, r.Args.NumParams, r.Args.NumQubits)
	}
	return NewGate(r.Args.Constructor, r.Args.Name, r.Args.NumParams, r.Args.NumQubits), nil
}
