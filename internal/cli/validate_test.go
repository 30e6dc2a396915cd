package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qbridge/internal/compiler"
)

func TestValidate_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bell.yaml", bellYAML)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ Program bell valid (6 statements)\n", stdout)
}

func TestValidate_ValidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.cue", customCUE)

	stdout, _, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, "custom", result.Program)
	assert.Len(t, result.ProgramHash, 64)
}

func TestValidate_Invalid(t *testing.T) {
	const prog = `name: broken
body:
  - qreg: { name: q, size: 1 }
  - apply: { gate: h, qubits: ["q[3]"] }
  - apply: { gate: nope, qubits: ["q[0]"] }
`
	path := writeFile(t, t.TempDir(), "broken.yaml", prog)

	stdout, _, err := execute(t, "validate", path)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, Reported(err))
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, compiler.ErrOperandOutOfRange)
	assert.Contains(t, stdout, compiler.ErrUnknownGate)
}

func TestValidate_InvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.yaml", "name: dup\nbody:\n  - qreg: { name: q, size: 1 }\n  - qreg: { name: q, size: 2 }\n")

	stdout, _, err := execute(t, "validate", path, "--format", "json")
	require.Error(t, err)

	var result ValidationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrDuplicateName, resp.Error.Code)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, compiler.ErrDuplicateName, result.Errors[0].Code)
}

func TestValidate_LoadErrorIsValidationFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.cue", "name: \"x\"\nbody: [\n")

	stdout, _, err := execute(t, "validate", path)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeLoadFailed)
}

func TestValidate_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "validate", filepath.Join(dir, "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
