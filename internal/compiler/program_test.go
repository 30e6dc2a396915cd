package compiler

import (
	"errors"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/ir"
)

func TestCompileProgramBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		name:        "custom"
		description: "one custom gate"
		body: [
			{qreg: {name: "q", size: 2}},
			{creg: {name: "c", size: 2}},
			{qubit: {name: "anc"}},
			{gate: {name: "rzz", params: 1, qubits: 2}},
			{apply: {gate: "rzz", params: [3.14], qubits: ["q[0]", "q[1]"]}},
			{apply: {gate: "measure", qubits: ["q[0]"], clbits: ["c[0]"]}},
		]
	`)
	require.NoError(t, v.Err())

	prog, err := CompileProgram(v)
	require.NoError(t, err)

	assert.Equal(t, "custom", prog.Name)
	assert.Equal(t, "one custom gate", prog.Description)
	require.Len(t, prog.Body, 6)
	assert.Equal(t, &ir.RegisterDecl{Name: "q", Size: 2}, prog.Body[0].QReg)
	assert.Equal(t, &ir.RegisterDecl{Name: "c", Size: 2}, prog.Body[1].CReg)
	assert.Equal(t, &ir.BitDecl{Name: "anc"}, prog.Body[2].Qubit)
	assert.Equal(t, &ir.GateDecl{Name: "rzz", Params: 1, Qubits: 2}, prog.Body[3].Gate)
	assert.Equal(t, &ir.Apply{Gate: "rzz", Params: []float64{3.14}, Qubits: []string{"q[0]", "q[1]"}}, prog.Body[4].Apply)
	assert.Equal(t, []string{"c[0]"}, prog.Body[5].Apply.Clbits)
}

func TestCompileProgramIntParamsWiden(t *testing.T) {
	v := cuecontext.New().CompileString(`
		name: "p"
		body: [{apply: {gate: "r", params: [1, 0.5], qubits: ["q[0]"]}}]
	`)
	prog, err := CompileProgram(v)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5}, prog.Body[0].Apply.Params)
}

func TestCompileProgramGateConstructor(t *testing.T) {
	v := cuecontext.New().CompileString(`
		name: "p"
		body: [{gate: {name: "myrz", params: 1, qubits: 1, constructor: "RZGate"}}]
	`)
	prog, err := CompileProgram(v)
	require.NoError(t, err)
	assert.Equal(t, "RZGate", prog.Body[0].Gate.Constructor)
}

func TestCompileProgramMissingName(t *testing.T) {
	v := cuecontext.New().CompileString(`body: []`)
	_, err := CompileProgram(v)
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "name", ce.Field)
}

func TestCompileProgramMissingBody(t *testing.T) {
	v := cuecontext.New().CompileString(`name: "x"`)
	_, err := CompileProgram(v)
	assert.ErrorContains(t, err, "body is required")
}

func TestCompileProgramStatementErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"two keys", `{qreg: {name: "q", size: 1}, creg: {name: "c", size: 1}}`, "body[0]"},
		{"empty", `{}`, "body[0]"},
		{"unknown kind", `{barrier: {}}`, "body[0].barrier"},
		{"register missing size", `{qreg: {name: "q"}}`, "body[0].qreg.size"},
		{"apply missing qubits", `{apply: {gate: "h"}}`, "body[0].apply.qubits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(`name: "x", body: [` + tt.body + `]`)
			_, err := CompileProgram(v)
			require.Error(t, err)
			var ce *CompileError
			require.True(t, errors.As(err, &ce), "got %T: %v", err, err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileProgramWrongType(t *testing.T) {
	v := cuecontext.New().CompileString(`name: "x", body: [{qreg: {name: "q", size: "two"}}]`)
	_, err := CompileProgram(v)
	require.Error(t, err)
}

func TestCompileProgramCUEError(t *testing.T) {
	v := cuecontext.New().CompileString(`name: "x" & "y"`)
	_, err := CompileProgram(v)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "cue", ce.Field)
	assert.Contains(t, ce.Message, "conflicting values")
}
