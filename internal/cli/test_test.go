package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func TestTestCommand_HarnessScenarios(t *testing.T) {
	stdout, _, err := execute(t, "test", harnessScenarios)
	require.NoError(t, err, stdout)

	assert.Contains(t, stdout, "✓ bell_pair\n")
	assert.Contains(t, stdout, "✓ missing_binding\n")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	stdout, _, err := execute(t, "test", harnessScenarios, "--filter", "bell*", "--format", "json")
	require.NoError(t, err)

	var result TestResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, "bell_pair", result.Scenarios[0].Name)
}

func TestTestCommand_UpdateWritesGoldens(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	_, _, err := execute(t, "test", harnessScenarios, "--filter", "custom_gates", "--golden", golden, "--update")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(golden, "custom_gates.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("../harness/testdata/golden/custom_gates.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	golden := t.TempDir()
	writeFile(t, golden, "bell_pair.golden", "{}")

	stdout, _, err := execute(t, "test", harnessScenarios, "--filter", "bell_pair", "--golden", golden)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ bell_pair")
	assert.Contains(t, stdout, "golden file mismatch")
	assert.Contains(t, stdout, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommand_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wrong.yaml", `name: wrong
program:
  name: one
  body:
    - qreg: { name: q, size: 1 }
expect:
  qubits: ["q[0]", "q[1]"]
`)

	stdout, _, err := execute(t, "test", dir, "--format", "json")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	var result TestResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, result.Scenarios, 1)
	assert.False(t, result.Scenarios[0].Pass)
	assert.True(t, strings.Contains(strings.Join(result.Scenarios[0].Errors, "\n"), "expect.qubits mismatch"))
}

func TestTestCommand_BadScenarioFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	stdout, _, err := execute(t, "test", dir)

	require.Error(t, err)
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "test", harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_NoScenarios(t *testing.T) {
	stdout, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", stdout)
}
