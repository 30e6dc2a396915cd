package importer

import (
	"fmt"

	"github.com/roach88/qbridge/internal/circuit"
	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/runtime"
)

// boundGate adapts the runtime's generic Gate(name, num_qubits, params) type
// to the positional-parameters constructor a circuit.Gate expects.
type boundGate struct {
	generic   runtime.Type
	name      string
	numQubits int
}

// Call implements runtime.Callable.
func (b *boundGate) Call(args ...runtime.Object) (runtime.Object, error) {
	return b.generic.Call(b.name, b.numQubits, runtime.Tuple(args))
}

// Resolver locates runtime objects by qualified name.
// memrt.Interp implements it.
type Resolver interface {
	Resolve(qualName string) (runtime.Object, error)
}

// Record produces the archive records for a result. snap is the runtime's
// picture of res.Circuit; the importer cannot take it itself because circuit
// objects are opaque to it.
func Record(res *Result, snap ir.CircuitSnapshot) (ir.BuildRecord, []ir.GateRecord, error) {
	canonical, err := snap.MarshalCanonical()
	if err != nil {
		return ir.BuildRecord{}, nil, fmt.Errorf("record %s: %w", res.BuildID, err)
	}
	snapHash, err := ir.SnapshotHash(&snap)
	if err != nil {
		return ir.BuildRecord{}, nil, fmt.Errorf("record %s: %w", res.BuildID, err)
	}

	build := ir.BuildRecord{
		ID:           res.BuildID,
		ProgramName:  res.Program.Name,
		ProgramHash:  res.ProgramHash,
		SnapshotHash: snapHash,
		Snapshot:     string(canonical),
		Seq:          res.Seq,
		IRVersion:    ir.IRVersion,
	}

	gates := make([]ir.GateRecord, 0, len(res.Gates))
	for i, g := range res.Gates {
		rec, err := gateRecord(res.BuildID, int64(i), g.Reduce())
		if err != nil {
			return ir.BuildRecord{}, nil, err
		}
		gates = append(gates, rec)
	}
	return build, gates, nil
}

func gateRecord(buildID string, pos int64, r circuit.Reduction) (ir.GateRecord, error) {
	rec := ir.GateRecord{
		BuildID:   buildID,
		Position:  pos,
		Type:      r.Type,
		Name:      r.Args.Name,
		NumParams: int64(r.Args.NumParams),
		NumQubits: int64(r.Args.NumQubits),
	}
	ctor := r.Args.Constructor
	if bound, ok := ctor.(*boundGate); ok {
		rec.Bound = bound.name
		ctor = bound.generic
	}
	named, ok := ctor.(runtime.Named)
	if !ok {
		return ir.GateRecord{}, fmt.Errorf("gate %s: constructor %s has no qualified name", r.Args.Name, runtime.TypeOf(ctor))
	}
	rec.Constructor = named.QualName()
	return rec, nil
}

// RestoreGates rebuilds gate descriptors from archive records, resolving each
// constructor by qualified name.
func RestoreGates(rt Resolver, records []ir.GateRecord) ([]*circuit.Gate, error) {
	gates := make([]*circuit.Gate, 0, len(records))
	for _, rec := range records {
		obj, err := rt.Resolve(rec.Constructor)
		if err != nil {
			return nil, fmt.Errorf("restore gate %s: %w", rec.Name, err)
		}
		var ctor runtime.Callable
		if rec.Bound != "" {
			generic, ok := obj.(runtime.Type)
			if !ok {
				return nil, fmt.Errorf("restore gate %s: %s is not a type", rec.Name, rec.Constructor)
			}
			ctor = &boundGate{generic: generic, name: rec.Bound, numQubits: int(rec.NumQubits)}
		} else {
			c, ok := obj.(runtime.Callable)
			if !ok {
				return nil, fmt.Errorf("restore gate %s: %s is not callable", rec.Name, rec.Constructor)
			}
			ctor = c
		}
		g, err := circuit.RebuildGate(circuit.Reduction{
			Type: rec.Type,
			Args: circuit.GateArgs{
				Constructor: ctor,
				Name:        rec.Name,
				NumParams:   int(rec.NumParams),
				NumQubits:   int(rec.NumQubits),
			},
		})
		if err != nil {
			return nil, err
		}
		gates = append(gates, g)
	}
	return gates, nil
}
