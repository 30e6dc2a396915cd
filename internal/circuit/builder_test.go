package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/runtime"
	"github.com/roach88/qbridge/internal/runtime/memrt"
	"github.com/roach88/qbridge/internal/testutil"
)

func newFakeBuilder(t *testing.T) (*testutil.FakeRuntime, *Module, *Builder) {
	t.Helper()
	rt := testutil.NewFakeRuntime()
	m, err := Import(rt)
	require.NoError(t, err)
	b, err := m.NewCircuit()
	require.NoError(t, err)
	rt.Recorder().Reset()
	return rt, m, b
}

func TestBuilder_ForwardsEachMutationOnce(t *testing.T) {
	rt, m, b := newFakeBuilder(t)

	q, err := m.NewQReg("q", 1)
	require.NoError(t, err)
	c, err := m.NewCReg("c", 1)
	require.NoError(t, err)
	anc, err := m.NewQubit()
	require.NoError(t, err)
	flag, err := m.NewClbit()
	require.NoError(t, err)
	rt.Recorder().Reset()

	require.NoError(t, b.AddQReg(q))
	require.NoError(t, b.AddCReg(c))
	require.NoError(t, b.AddQubit(anc))
	require.NoError(t, b.AddClbit(flag))
	require.NoError(t, b.Append("inst"))

	assert.Equal(t, []string{
		"QuantumCircuit.add_register(1)",
		"QuantumCircuit.add_register(1)",
		"QuantumCircuit.add_bits(1)",
		"QuantumCircuit.add_bits(1)",
		"QuantumCircuit._append(1)",
	}, rt.Recorder().Trace())

	calls := rt.Recorder().Calls()
	assert.Same(t, q.Object(), calls[0].Args[0], "register is shared, not copied")
	assert.Equal(t, runtime.Tuple{anc}, calls[2].Args[0], "loose bits are wrapped in a one-element tuple")
	assert.Equal(t, runtime.Tuple{flag}, calls[3].Args[0])
	assert.Equal(t, "inst", calls[4].Args[0])
}

func TestBuilder_RuntimeErrorReturnedVerbatim(t *testing.T) {
	_, _, b := newFakeBuilder(t)
	rejection := runtime.Errorf(runtime.KindCircuit, "duplicate register")
	b.Object().(*testutil.FakeCircuit).Fail["_append"] = rejection

	err := b.Append("inst")
	assert.Same(t, rejection, err)
}

func TestBuilder_NoMethodCaller(t *testing.T) {
	b := &Builder{qc: 42}
	err := b.AddQubit("bit")
	require.Error(t, err)
	assert.True(t, runtime.IsKind(err, runtime.KindAttribute))
}

func TestBuilder_FinishSharesHandle(t *testing.T) {
	_, _, b := newFakeBuilder(t)
	assert.Same(t, b.Object(), b.Finish())
}

func TestBuilder_PartialStateKeptOnFailure(t *testing.T) {
	m, err := Import(memrt.New())
	require.NoError(t, err)
	b, err := m.NewCircuit()
	require.NoError(t, err)

	first, err := m.NewQReg("q", 1)
	require.NoError(t, err)
	dup, err := m.NewQReg("q", 2)
	require.NoError(t, err)

	require.NoError(t, b.AddQReg(first))
	require.Error(t, b.AddQReg(dup))

	qc := b.Finish().(*memrt.Circuit)
	assert.Len(t, qc.QRegs(), 1, "the earlier register stays")
}
