package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/runtime"
)

// countingConstructor records every invocation.
type countingConstructor struct {
	calls [][]runtime.Object
}

func (c *countingConstructor) Call(args ...runtime.Object) (runtime.Object, error) {
	c.calls = append(c.calls, args)
	return "op", nil
}

func TestGate_ConstructForwardsArgsInOrder(t *testing.T) {
	ctor := &countingConstructor{}
	g := NewGate(ctor, "rzz", 2, 2)

	op, err := g.Construct(0.5, 1.5)
	require.NoError(t, err)
	assert.Equal(t, "op", op)
	require.Len(t, ctor.calls, 1)
	assert.Equal(t, []runtime.Object{0.5, 1.5}, ctor.calls[0])
}

func TestGate_ConstructArityMismatch(t *testing.T) {
	tests := []struct {
		name string
		args []runtime.Object
	}{
		{"none", nil},
		{"one short", []runtime.Object{1.0}},
		{"one extra", []runtime.Object{1.0, 2.0, 3.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctor := &countingConstructor{}
			g := NewGate(ctor, "u2", 2, 1)

			op, err := g.Construct(tt.args...)
			require.Error(t, err)
			assert.Nil(t, op)
			assert.True(t, IsInternalError(err))
			assert.Empty(t, ctor.calls, "constructor must not be called")
		})
	}
}

func TestGate_ArityErrorMessage(t *testing.T) {
	g := NewGate(&countingConstructor{}, "rzz", 1, 2)

	_, err := g.Construct()
	require.Error(t, err)
	assert.Equal(t,
		"INTERNAL_LOGIC: internal logic error: wrong number of params for rzz (got 0, expected 1)",
		err.Error())
}

func TestGate_ZeroParams(t *testing.T) {
	ctor := &countingConstructor{}
	g := NewGate(ctor, "h2", 0, 2)

	_, err := g.Construct()
	require.NoError(t, err)
	assert.Len(t, ctor.calls, 1)
}

func TestGate_String(t *testing.T) {
	g := NewGate(&countingConstructor{}, "rzz", 1, 2)
	assert.Equal(t, `CustomGate(name="rzz", num_params=1, num_qubits=2)`, g.String())
}

func TestGate_ReduceRebuild(t *testing.T) {
	ctor := &countingConstructor{}
	tests := []struct {
		name      string
		numParams int
		numQubits int
	}{
		{"rzz", 1, 2},
		{"u3", 3, 1},
		{"barrier_like", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(ctor, tt.name, tt.numParams, tt.numQubits)

			r := g.Reduce()
			assert.Equal(t, GateTypeName, r.Type)

			rebuilt, err := RebuildGate(r)
			require.NoError(t, err)
			assert.Equal(t, g.Name(), rebuilt.Name())
			assert.Equal(t, g.NumParams(), rebuilt.NumParams())
			assert.Equal(t, g.NumQubits(), rebuilt.NumQubits())
			assert.Same(t, ctor, rebuilt.Constructor().(*countingConstructor))
			assert.Equal(t, g.String(), rebuilt.String())
		})
	}
}

func TestRebuildGate_Invalid(t *testing.T) {
	ctor := &countingConstructor{}

	_, err := RebuildGate(Reduction{Type: "Gate", Args: GateArgs{Constructor: ctor, Name: "x"}})
	assert.ErrorContains(t, err, "unexpected type")

	_, err = RebuildGate(Reduction{Type: GateTypeName, Args: GateArgs{Name: "x"}})
	assert.ErrorContains(t, err, "constructor is required")

	_, err = RebuildGate(Reduction{Type: GateTypeName, Args: GateArgs{Constructor: ctor, Name: "x", NumParams: -1}})
	assert.ErrorContains(t, err, "negative arity")
}
