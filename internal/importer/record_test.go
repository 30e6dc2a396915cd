package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/circuit"
	"github.com/roach88/qbridge/internal/ir"
	"github.com/roach88/qbridge/internal/runtime"
	"github.com/roach88/qbridge/internal/runtime/memrt"
)

func customProgram() *ir.Program {
	return &ir.Program{
		Name: "custom",
		Body: []ir.Statement{
			{QReg: &ir.RegisterDecl{Name: "q", Size: 2}},
			{Gate: &ir.GateDecl{Name: "rzz", Params: 1, Qubits: 2}},
			{Gate: &ir.GateDecl{Name: "myr", Params: 2, Qubits: 1, Constructor: "RGate"}},
			{Apply: &ir.Apply{Gate: "rzz", Params: []float64{0.5}, Qubits: []string{"q[0]", "q[1]"}}},
		},
	}
}

func TestRecord(t *testing.T) {
	rt := memrt.New()
	im := newTestImporter(t, rt)
	res, err := im.Import(context.Background(), customProgram())
	require.NoError(t, err)
	snap, err := memrt.Snapshot(res.Circuit)
	require.NoError(t, err)

	build, gates, err := Record(res, snap)
	require.NoError(t, err)

	assert.Equal(t, res.BuildID, build.ID)
	assert.Equal(t, "custom", build.ProgramName)
	assert.Equal(t, res.ProgramHash, build.ProgramHash)
	assert.Equal(t, ir.IRVersion, build.IRVersion)
	wantHash, err := ir.SnapshotHash(&snap)
	require.NoError(t, err)
	assert.Equal(t, wantHash, build.SnapshotHash)
	assert.Contains(t, build.Snapshot, `"name":"rzz"`)

	assert.Equal(t, []ir.GateRecord{
		{BuildID: res.BuildID, Position: 0, Type: "CustomGate", Name: "rzz", NumParams: 1, NumQubits: 2,
			Constructor: "qiskit.circuit.Gate", Bound: "rzz"},
		{BuildID: res.BuildID, Position: 1, Type: "CustomGate", Name: "myr", NumParams: 2, NumQubits: 1,
			Constructor: "qiskit.circuit.library.RGate"},
	}, gates)
}

func TestRecord_UnnamedConstructor(t *testing.T) {
	anon := runtime.CallableFunc(func(args ...runtime.Object) (runtime.Object, error) { return nil, nil })
	res := &Result{
		BuildID: "b",
		Program: &ir.Program{Name: "p"},
		Gates:   []*circuit.Gate{circuit.NewGate(anon, "g", 0, 1)},
	}
	_, _, err := Record(res, ir.CircuitSnapshot{})
	assert.ErrorContains(t, err, "no qualified name")
}

func TestRestoreGates_RoundTrip(t *testing.T) {
	rt := memrt.New()
	im := newTestImporter(t, rt)
	res, err := im.Import(context.Background(), customProgram())
	require.NoError(t, err)
	snap, err := memrt.Snapshot(res.Circuit)
	require.NoError(t, err)
	_, records, err := Record(res, snap)
	require.NoError(t, err)

	restored, err := RestoreGates(rt, records)
	require.NoError(t, err)
	require.Len(t, restored, len(res.Gates))
	for i, g := range restored {
		assert.Equal(t, res.Gates[i].String(), g.String())
	}

	// The restored descriptors still construct working operations.
	op, err := restored[0].Construct(0.25)
	require.NoError(t, err)
	assert.Equal(t, "rzz", op.(*memrt.Operation).Name())
	assert.Equal(t, 2, op.(*memrt.Operation).NumQubits())

	op, err = restored[1].Construct(1.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, "r", op.(*memrt.Operation).Name())

	_, err = restored[1].Construct()
	assert.True(t, circuit.IsInternalError(err))
}

func TestRestoreGates_Errors(t *testing.T) {
	rt := memrt.New()

	_, err := RestoreGates(rt, []ir.GateRecord{{Name: "g", Type: "CustomGate", Constructor: "qiskit.circuit.library.Nope"}})
	assert.ErrorContains(t, err, "restore gate g")

	_, err = RestoreGates(rt, []ir.GateRecord{{Name: "g", Type: "Other", Constructor: "qiskit.circuit.library.HGate"}})
	assert.ErrorContains(t, err, "unexpected type")
}
