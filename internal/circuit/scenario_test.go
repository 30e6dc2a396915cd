package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/runtime"
	"github.com/roach88/qbridge/internal/runtime/memrt"
)

// buildCustomGateCircuit builds a circuit with q[2], c[2] and one rzz(3.14)
// instruction on (q[0], q[1]).
func buildCustomGateCircuit(t *testing.T) (*Module, *Builder, *Gate, *QuantumRegister) {
	t.Helper()
	rt := memrt.New()
	m, err := Import(rt)
	require.NoError(t, err)

	b, err := m.NewCircuit()
	require.NoError(t, err)
	q, err := m.NewQReg("q", 2)
	require.NoError(t, err)
	c, err := m.NewCReg("c", 2)
	require.NoError(t, err)
	require.NoError(t, b.AddQReg(q))
	require.NoError(t, b.AddCReg(c))

	generic, err := rt.Resolve("qiskit.circuit.Gate")
	require.NoError(t, err)
	ctor := runtime.CallableFunc(func(args ...runtime.Object) (runtime.Object, error) {
		return generic.(runtime.Type).Call("rzz", 2, runtime.Tuple(args))
	})
	g := NewGate(ctor, "rzz", 1, 2)

	op, err := g.Construct(3.14)
	require.NoError(t, err)
	q0, err := q.Bit(0)
	require.NoError(t, err)
	q1, err := q.Bit(1)
	require.NoError(t, err)
	inst, err := m.NewInstruction(op, []runtime.Object{q0, q1}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Append(inst))

	return m, b, g, q
}

func TestScenario_CustomGateCircuit(t *testing.T) {
	_, b, _, _ := buildCustomGateCircuit(t)

	qc := b.Finish().(*memrt.Circuit)
	assert.Len(t, qc.QRegs(), 1)
	assert.Len(t, qc.CRegs(), 1)
	require.Len(t, qc.Data(), 1)

	inst := qc.Data()[0]
	assert.Equal(t, "rzz", inst.Operation.Name())
	assert.Equal(t, []runtime.Object{3.14}, inst.Operation.Params())
	assert.Len(t, inst.Qubits, 2)
	assert.Empty(t, inst.Clbits)
}

func TestScenario_ArityFailureLeavesCircuitUntouched(t *testing.T) {
	_, b, g, _ := buildCustomGateCircuit(t)

	op, err := g.Construct()
	require.Error(t, err)
	assert.Nil(t, op)
	assert.True(t, IsInternalError(err))

	qc := b.Object().(*memrt.Circuit)
	assert.Len(t, qc.Data(), 1, "no instruction added")
}

func TestScenario_BitPastEnd(t *testing.T) {
	_, _, _, q := buildCustomGateCircuit(t)

	_, err := q.Bit(2)
	require.Error(t, err)
	assert.True(t, IsIndexError(err))
}

func TestScenario_AppendOverUnregisteredBits(t *testing.T) {
	m, b, _, _ := buildCustomGateCircuit(t)

	stray, err := m.NewQReg("r", 1)
	require.NoError(t, err)
	bit, err := stray.Bit(0)
	require.NoError(t, err)

	h, err := memrt.New().Resolve("qiskit.circuit.library.HGate")
	require.NoError(t, err)
	hop, err := h.(runtime.Type).Call()
	require.NoError(t, err)
	inst, err := m.NewInstruction(hop, []runtime.Object{bit}, nil)
	require.NoError(t, err)

	err = b.Append(inst)
	require.Error(t, err)
	assert.True(t, runtime.IsKind(err, runtime.KindCircuit), "runtime reports the violation")
	assert.Len(t, b.Object().(*memrt.Circuit).Data(), 1)
}
