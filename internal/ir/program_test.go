package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatement_Kind(t *testing.T) {
	tests := []struct {
		name string
		st   Statement
		want StatementKind
	}{
		{"qreg", Statement{QReg: &RegisterDecl{Name: "q", Size: 1}}, KindQReg},
		{"creg", Statement{CReg: &RegisterDecl{Name: "c", Size: 1}}, KindCReg},
		{"qubit", Statement{Qubit: &BitDecl{Name: "a"}}, KindQubit},
		{"clbit", Statement{Clbit: &BitDecl{Name: "f"}}, KindClbit},
		{"gate", Statement{Gate: &GateDecl{Name: "g"}}, KindGate},
		{"apply", Statement{Apply: &Apply{Gate: "h"}}, KindApply},
		{"empty", Statement{}, KindInvalid},
		{"two fields", Statement{Qubit: &BitDecl{Name: "a"}, Clbit: &BitDecl{Name: "b"}}, KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.st.Kind())
		})
	}
}

func TestParseOperand(t *testing.T) {
	op, err := ParseOperand("q[3]")
	require.NoError(t, err)
	assert.Equal(t, Operand{Name: "q", Index: 3}, op)
	assert.False(t, op.IsLoose())
	assert.Equal(t, "q[3]", op.String())

	op, err = ParseOperand("anc_1")
	require.NoError(t, err)
	assert.True(t, op.IsLoose())
	assert.Equal(t, "anc_1", op.String())

	op, err = ParseOperand("q [ 0 ]")
	require.NoError(t, err)
	assert.Equal(t, "q[0]", op.String())

	for _, bad := range []string{"", "q[]", "q[-1]", "1q", "q[0", "q.0"} {
		_, err := ParseOperand(bad)
		assert.Error(t, err, "operand %q", bad)
	}
}

func TestFormatParam(t *testing.T) {
	assert.Equal(t, "3.14", FormatParam(3.14))
	assert.Equal(t, "2", FormatParam(2))
	assert.Equal(t, "-0.5", FormatParam(-0.5))
	assert.Equal(t, "1e-09", FormatParam(1e-9))
}

func TestProgram_YAMLShape(t *testing.T) {
	src := `
name: demo
body:
  - qreg: {name: q, size: 2}
  - gate: {name: rzz, params: 1, qubits: 2}
  - apply: {gate: rzz, params: [0.5], qubits: ["q[0]", "q[1]"]}
`
	var p Program
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))
	require.Len(t, p.Body, 3)
	assert.Equal(t, KindQReg, p.Body[0].Kind())
	assert.Equal(t, &GateDecl{Name: "rzz", Params: 1, Qubits: 2}, p.Body[1].Gate)
	assert.Equal(t, []float64{0.5}, p.Body[2].Apply.Params)
}
