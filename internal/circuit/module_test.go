package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/runtime"
	"github.com/roach88/qbridge/internal/runtime/memrt"
	"github.com/roach88/qbridge/internal/testutil"
)

func TestImport_ResolvesAllBindings(t *testing.T) {
	rt := testutil.NewFakeRuntime()

	m, err := Import(rt)
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, m.Namespace())
	assert.Empty(t, rt.Recorder().Calls(), "resolution must not construct anything")
}

func TestImport_MissingNamespace(t *testing.T) {
	rt := testutil.NewFakeRuntime()

	m, err := ImportFrom(rt, "qiskit.elsewhere")
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, IsBindingError(err))
	assert.True(t, runtime.IsKind(err, runtime.KindImport), "runtime cause should be reachable")
}

func TestImport_MissingBinding(t *testing.T) {
	for _, name := range []string{
		BindingCircuit, BindingQReg, BindingQubit, BindingCReg, BindingClbit, BindingInstruction,
	} {
		t.Run(name, func(t *testing.T) {
			rt := testutil.NewFakeRuntime()
			rt.Module(DefaultNamespace).Delete(name)

			m, err := Import(rt)
			require.Error(t, err)
			assert.Nil(t, m, "no partial module")

			var ie *ImporterError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, ErrCodeBindingMissing, ie.Code)
			assert.Equal(t, name, ie.Binding)
			assert.Contains(t, err.Error(), "qiskit.circuit."+name)
		})
	}
}

func TestImport_WrongKindBinding(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Module(DefaultNamespace).Set(BindingQubit, "not a type")

	m, err := Import(rt)
	require.Error(t, err)
	assert.Nil(t, m)

	var ie *ImporterError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, ErrCodeBindingKind, ie.Code)
	assert.Equal(t, BindingQubit, ie.Binding)
	assert.Contains(t, ie.Message, "string")
}

func TestModule_ConstructionCalls(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	m, err := Import(rt)
	require.NoError(t, err)

	_, err = m.NewCircuit()
	require.NoError(t, err)
	_, err = m.NewQReg("q", 2)
	require.NoError(t, err)
	_, err = m.NewQubit()
	require.NoError(t, err)
	_, err = m.NewCReg("c", 1)
	require.NoError(t, err)
	_, err = m.NewClbit()
	require.NoError(t, err)

	calls := rt.Recorder().Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, "QuantumCircuit", calls[0].Target)
	assert.Empty(t, calls[0].Args)
	assert.Equal(t, "QuantumRegister", calls[1].Target)
	assert.Equal(t, []runtime.Object{2, "q"}, calls[1].Args, "registers are built with (size, name)")
	assert.Equal(t, "Qubit", calls[2].Target)
	assert.Empty(t, calls[2].Args)
	assert.Equal(t, []runtime.Object{1, "c"}, calls[3].Args)
	assert.Equal(t, "Clbit", calls[4].Target)
}

func TestModule_NewInstructionPassesTuples(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	m, err := Import(rt)
	require.NoError(t, err)

	op := "op"
	qubits := []runtime.Object{"a", "b"}
	obj, err := m.NewInstruction(op, qubits, nil)
	require.NoError(t, err)

	inst := obj.(*testutil.FakeInstruction)
	assert.Equal(t, op, inst.Operation)
	assert.Equal(t, runtime.Tuple{"a", "b"}, inst.Qubits)
	assert.Equal(t, runtime.Tuple{}, inst.Clbits)

	qubits[0] = "mutated"
	assert.Equal(t, runtime.Tuple{"a", "b"}, inst.Qubits, "operands are copied")
}

func TestModule_RegisterBitListNotAList(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Module(DefaultNamespace).Set(BindingQReg, rt.NewType("QuantumRegister", func(args ...runtime.Object) (runtime.Object, error) {
		return &testutil.FakeRegister{Name: "q", Bits: "nope"}, nil
	}))
	m, err := Import(rt)
	require.NoError(t, err)

	_, err = m.NewQReg("q", 1)
	require.Error(t, err)
	var ie *ImporterError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, ErrCodeBitSnapshot, ie.Code)
	assert.False(t, IsBindingError(err))
}

func TestModule_RegisterSizeMismatch(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	rt.Module(DefaultNamespace).Set(BindingCReg, rt.NewType("ClassicalRegister", func(args ...runtime.Object) (runtime.Object, error) {
		return &testutil.FakeRegister{Name: "c", Bits: &testutil.FakeList{Items: []runtime.Object{"only-one"}}}, nil
	}))
	m, err := Import(rt)
	require.NoError(t, err)

	_, err = m.NewCReg("c", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared size 3 but runtime reports 1 bits")
}

func TestModule_RuntimeRejectionPassesThrough(t *testing.T) {
	m, err := Import(memrt.New())
	require.NoError(t, err)

	_, err = m.NewQReg("Bad Name", 1)
	require.Error(t, err)
	var re *runtime.Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, runtime.KindCircuit, re.Kind)

	var ie *ImporterError
	assert.False(t, errors.As(err, &ie), "runtime errors are not wrapped")
}
